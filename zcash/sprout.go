package zcash

import "strings"

// SproutAddress is a zc (main) or zt (test) address of the original shielded
// pool.
type SproutAddress struct {
	encoded
	receiver SproutReceiver
}

// NewSproutAddress returns the address of receiver on net.
func NewSproutAddress(receiver SproutReceiver, net Network) *SproutAddress {
	prefix := Params(net).SproutAddrID
	return &SproutAddress{
		encoded:  encoded{text: encodeBase58Check(prefix, receiver[:]), net: net},
		receiver: receiver,
	}
}

// Receiver returns the Sprout receiver.
func (a *SproutAddress) Receiver() SproutReceiver {
	return a.receiver
}

// SupportsPool reports whether pool is the Sprout pool.
func (a *SproutAddress) SupportsPool(pool Pool) bool {
	return pool == PoolSprout
}

// Receivers returns the single Sprout receiver.
func (a *SproutAddress) Receivers() []Receiver {
	return []Receiver{a.receiver}
}

func decodeSprout(text string) (Address, error) {
	params, _, payload, err := decodeBase58Check(text, len(SproutReceiver{}),
		func(p *AddressParams, text string) ([2]byte, bool) {
			return p.SproutAddrID, strings.HasPrefix(text, p.SproutPrefix)
		},
	)
	if err != nil {
		return nil, err
	}
	return NewSproutAddress(SproutReceiver(payload), params.Net), nil
}
