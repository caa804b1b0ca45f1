package zcash

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// SaplingAddress is a zs (main) or ztestsapling (test) address.
type SaplingAddress struct {
	encoded
	receiver SaplingReceiver
}

// NewSaplingAddress returns the address of receiver on net.
func NewSaplingAddress(receiver SaplingReceiver, net Network) *SaplingAddress {
	hrp := Params(net).SaplingHRP
	return &SaplingAddress{
		encoded:  encoded{text: encodeBech32(hrp, receiver[:], bech32.Version0), net: net},
		receiver: receiver,
	}
}

// Receiver returns the Sapling receiver.
func (a *SaplingAddress) Receiver() SaplingReceiver {
	return a.receiver
}

// SupportsPool reports whether pool is the Sapling pool.
func (a *SaplingAddress) SupportsPool(pool Pool) bool {
	return pool == PoolSapling
}

// Receivers returns the single Sapling receiver.
func (a *SaplingAddress) Receivers() []Receiver {
	return []Receiver{a.receiver}
}

func decodeSapling(text string) (Address, error) {
	hrp, ok := splitHRP(text)
	params := findParams(hrp, func(p *AddressParams) string {
		return p.SaplingHRP
	})
	if !ok || params == nil {
		return nil, ErrUnrecognizedAddress
	}

	payload, err := decodeBech32(text, bech32.Version0, true)
	if err != nil {
		return nil, err
	}
	if len(payload) != len(SaplingReceiver{}) {
		str := fmt.Sprintf("Sapling address payload is %d bytes, want %d",
			len(payload), len(SaplingReceiver{}))
		return nil, makeError(ErrMalformedAddressData, str)
	}

	return NewSaplingAddress(SaplingReceiver(payload), params.Net), nil
}
