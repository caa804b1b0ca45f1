package zcash

// References:
//   [ZIP316]: Unified Addresses and Unified Viewing Keys
//   https://zips.z.cash/zip-0316

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/wire"
)

// paddingLen is the length of the HRP padding appended to the raw encoding
// before jumbling.
const paddingLen = 16

// unifiedItem is one typecode || length || value entry of a unified address.
type unifiedItem struct {
	typeCode uint64
	data     []byte
}

// UnifiedAddress bundles receivers for several pools into one u (main) or
// utest (test) address.  The sender picks the most private pool it supports.
type UnifiedAddress struct {
	encoded

	// receivers holds the known receivers in ascending type code order.
	receivers []UnifiedReceiver

	// unknown holds items with type codes this package does not
	// understand.  They are kept so the address still round trips.
	unknown []unifiedItem
}

// NewUnifiedAddress builds a unified address for net from receivers given in
// any order.  At most one receiver per type code is allowed, P2PKH and P2SH
// may not be combined, and at least one receiver must be shielded.
func NewUnifiedAddress(net Network,
	receivers ...UnifiedReceiver) (*UnifiedAddress, error) {

	items := make([]unifiedItem, 0, len(receivers))
	for _, r := range receivers {
		if r == nil {
			return nil, makeError(ErrInvalidReceiver, "nil receiver")
		}
		items = append(items, unifiedItem{
			typeCode: uint64(r.TypeCode()),
			data:     r.Bytes(),
		})
	}
	slices.SortFunc(items, func(a, b unifiedItem) int {
		return compareTypeCode(a.typeCode, b.typeCode)
	})

	ua, err := newUnifiedAddress(net, items, ErrInvalidReceiver)
	if err != nil {
		return nil, err
	}

	ua.text = encodeUnified(Params(net).UnifiedHRP, items)
	return ua, nil
}

// CombineAddresses builds a unified address from the receivers of the given
// addresses.  Every address must belong to the same network, and Sprout
// addresses cannot take part.  Unified addresses contribute all of their
// known receivers.
func CombineAddresses(addrs ...Address) (*UnifiedAddress, error) {
	if len(addrs) == 0 {
		return nil, makeError(ErrInvalidReceiver,
			"no addresses to combine")
	}

	net := addrs[0].Network()
	var receivers []UnifiedReceiver
	for _, addr := range addrs {
		if addr.Network() != net {
			str := fmt.Sprintf("cannot combine %v address %v with %v "+
				"addresses", addr.Network(), addr, net)
			return nil, makeError(ErrWrongNetwork, str)
		}

		for _, r := range addr.Receivers() {
			ur, ok := r.(UnifiedReceiver)
			if !ok {
				str := fmt.Sprintf("%v receivers cannot be part of "+
					"a unified address", r.Pool())
				return nil, makeError(ErrInvalidReceiver, str)
			}
			receivers = append(receivers, ur)
		}
	}

	return NewUnifiedAddress(net, receivers...)
}

// newUnifiedAddress validates sorted items and builds the address around
// them.  kind is the error kind reported when they break a rule.
func newUnifiedAddress(net Network, items []unifiedItem,
	kind ErrorKind) (*UnifiedAddress, error) {

	ua := &UnifiedAddress{encoded: encoded{net: net}}
	var onlyTransparent, hasP2PKH, hasP2SH = true, false, false
	for i, item := range items {
		if i > 0 {
			switch compareTypeCode(items[i-1].typeCode, item.typeCode) {
			case 0:
				str := fmt.Sprintf("duplicate unified address item "+
					"type code %d", item.typeCode)
				return nil, makeError(kind, str)
			case 1:
				str := fmt.Sprintf("unified address item type code "+
					"%d is out of order", item.typeCode)
				return nil, makeError(kind, str)
			}
		}

		r, known, err := receiverFromItem(item.typeCode, item.data)
		switch {
		case err != nil && kind != ErrMalformedAddressData:
			return nil, makeError(kind, err.Error())
		case err != nil:
			return nil, err
		case !known:
			ua.unknown = append(ua.unknown, item)
			onlyTransparent = false
			continue
		}

		switch r.TypeCode() {
		case TypeP2PKH:
			hasP2PKH = true
		case TypeP2SH:
			hasP2SH = true
		default:
			onlyTransparent = false
		}
		ua.receivers = append(ua.receivers, r)
	}

	if hasP2PKH && hasP2SH {
		return nil, makeError(kind, "a unified address cannot carry "+
			"both P2PKH and P2SH receivers")
	}
	if onlyTransparent {
		return nil, makeError(kind, "a unified address requires at "+
			"least one receiver that is not transparent")
	}
	return ua, nil
}

// compareTypeCode orders type codes numerically, returning -1, 0 or +1.
func compareTypeCode(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Receiver returns the known receiver with the given type code.
func (a *UnifiedAddress) Receiver(typeCode byte) (UnifiedReceiver, bool) {
	for _, r := range a.receivers {
		if r.TypeCode() == typeCode {
			return r, true
		}
	}
	return nil, false
}

// SupportsPool reports whether the address carries a receiver for pool.
func (a *UnifiedAddress) SupportsPool(pool Pool) bool {
	for _, r := range a.receivers {
		if r.Pool() == pool {
			return true
		}
	}
	return false
}

// Receivers returns the known receivers in ascending type code order.
func (a *UnifiedAddress) Receivers() []Receiver {
	receivers := make([]Receiver, len(a.receivers))
	for i, r := range a.receivers {
		receivers[i] = r
	}
	return receivers
}

// UnknownTypeCodes returns the type codes of items this package does not
// understand, in address order.
func (a *UnifiedAddress) UnknownTypeCodes() []uint64 {
	codes := make([]uint64, len(a.unknown))
	for i, item := range a.unknown {
		codes[i] = item.typeCode
	}
	return codes
}

// padding returns the HRP zero-filled to paddingLen bytes.
func padding(hrp string) []byte {
	pad := make([]byte, paddingLen)
	copy(pad, hrp)
	return pad
}

// encodedItemsLen returns the raw length of the items plus padding.
func encodedItemsLen(items []unifiedItem) int {
	n := paddingLen
	for _, item := range items {
		n += wire.VarIntSerializeSize(item.typeCode)
		n += wire.VarIntSerializeSize(uint64(len(item.data)))
		n += len(item.data)
	}
	return n
}

// encodeUnified serializes, jumbles and bech32m encodes items, which must
// already be sorted.
func encodeUnified(hrp string, items []unifiedItem) string {
	predicted := encodedItemsLen(items)

	var buf bytes.Buffer
	buf.Grow(predicted)
	for _, item := range items {
		// Writes to a bytes.Buffer cannot fail.
		_ = wire.WriteVarInt(&buf, 0, item.typeCode)
		_ = wire.WriteVarInt(&buf, 0, uint64(len(item.data)))
		buf.Write(item.data)
	}
	buf.Write(padding(hrp))

	if buf.Len() != predicted {
		panic(fmt.Sprintf("zcash: unified address encoding is %d bytes, "+
			"predicted %d", buf.Len(), predicted))
	}

	jumbled, err := F4Jumble(buf.Bytes())
	if err != nil {
		panic(fmt.Sprintf("zcash: jumbling unified address: %v", err))
	}
	return encodeBech32(hrp, jumbled, bech32.VersionM)
}

func decodeUnified(text string) (Address, error) {
	hrp, ok := splitHRP(text)
	params := findParams(hrp, func(p *AddressParams) string {
		return p.UnifiedHRP
	})
	if !ok || params == nil {
		return nil, ErrUnrecognizedAddress
	}

	jumbled, err := decodeBech32(text, bech32.VersionM, false)
	if err != nil {
		return nil, err
	}
	raw, err := F4JumbleInv(jumbled)
	if err != nil {
		return nil, err
	}

	body, pad := raw[:len(raw)-paddingLen], raw[len(raw)-paddingLen:]
	if !bytes.Equal(pad, padding(hrp)) {
		return nil, makeError(ErrMalformedAddressData,
			"unified address padding does not match its prefix")
	}

	items, err := parseUnifiedItems(body)
	if err != nil {
		return nil, err
	}

	ua, err := newUnifiedAddress(params.Net, items, ErrMalformedAddressData)
	if err != nil {
		return nil, err
	}
	ua.text = strings.ToLower(text)

	log.Tracef("Decoded unified address with %d receivers and %d "+
		"unknown items", len(ua.receivers), len(ua.unknown))
	return ua, nil
}

// parseUnifiedItems walks the raw items strictly left to right.  Every byte
// must belong to a complete item.
func parseUnifiedItems(body []byte) ([]unifiedItem, error) {
	var items []unifiedItem
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		typeCode, err := wire.ReadVarInt(r, 0)
		if err != nil {
			str := fmt.Sprintf("reading unified address item type "+
				"code: %v", err)
			return nil, makeError(ErrMalformedAddressData, str)
		}
		length, err := wire.ReadVarInt(r, 0)
		if err != nil {
			str := fmt.Sprintf("reading unified address item "+
				"length: %v", err)
			return nil, makeError(ErrMalformedAddressData, str)
		}
		if length > uint64(r.Len()) {
			str := fmt.Sprintf("unified address item of %d bytes "+
				"overruns the remaining %d bytes", length, r.Len())
			return nil, makeError(ErrMalformedAddressData, str)
		}

		data := make([]byte, length)
		_, _ = r.Read(data)
		items = append(items, unifiedItem{typeCode: typeCode, data: data})
	}
	return items, nil
}
