package zcash

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const checksumLen = 4

// TransparentP2PKHAddress is a t1 (main) or tm (test) address paying to a
// public key hash.
type TransparentP2PKHAddress struct {
	encoded
	receiver TransparentP2PKHReceiver
}

// NewTransparentP2PKHAddress returns the address of receiver on net.
func NewTransparentP2PKHAddress(receiver TransparentP2PKHReceiver,
	net Network) *TransparentP2PKHAddress {

	prefix := Params(net).PubKeyHashAddrID
	return &TransparentP2PKHAddress{
		encoded:  encoded{text: encodeBase58Check(prefix, receiver[:]), net: net},
		receiver: receiver,
	}
}

// Receiver returns the public key hash.
func (a *TransparentP2PKHAddress) Receiver() TransparentP2PKHReceiver {
	return a.receiver
}

// SupportsPool reports whether pool is the transparent pool.
func (a *TransparentP2PKHAddress) SupportsPool(pool Pool) bool {
	return pool == PoolTransparent
}

// Receivers returns the single public key hash receiver.
func (a *TransparentP2PKHAddress) Receivers() []Receiver {
	return []Receiver{a.receiver}
}

// TransparentP2SHAddress is a t3 (main) or t2 (test) address paying to a
// script hash.
type TransparentP2SHAddress struct {
	encoded
	receiver TransparentP2SHReceiver
}

// NewTransparentP2SHAddress returns the address of receiver on net.
func NewTransparentP2SHAddress(receiver TransparentP2SHReceiver,
	net Network) *TransparentP2SHAddress {

	prefix := Params(net).ScriptHashAddrID
	return &TransparentP2SHAddress{
		encoded:  encoded{text: encodeBase58Check(prefix, receiver[:]), net: net},
		receiver: receiver,
	}
}

// Receiver returns the script hash.
func (a *TransparentP2SHAddress) Receiver() TransparentP2SHReceiver {
	return a.receiver
}

// SupportsPool reports whether pool is the transparent pool.
func (a *TransparentP2SHAddress) SupportsPool(pool Pool) bool {
	return pool == PoolTransparent
}

// Receivers returns the single script hash receiver.
func (a *TransparentP2SHAddress) Receivers() []Receiver {
	return []Receiver{a.receiver}
}

// encodeBase58Check encodes prefix || payload || checksum.  base58.CheckEncode
// only takes a one byte version, so the second prefix byte is carried at the
// front of its input.
func encodeBase58Check(prefix [2]byte, payload []byte) string {
	input := make([]byte, 0, 1+len(payload))
	input = append(input, prefix[1])
	input = append(input, payload...)
	return base58.CheckEncode(input, prefix[0])
}

// decodeBase58Check decodes text as a two byte prefixed base58check string
// whose payload is payloadLen bytes.  match returns the prefix the text claims
// for a network, judged by its leading characters.
//
// Text that no network claims is ErrUnrecognizedAddress.  Once claimed, a bad
// length or alphabet is ErrMalformedAddress, a bad checksum is
// ErrBadAddressChecksum and prefix bytes that disagree with the leading
// characters are ErrMalformedAddressData.
func decodeBase58Check(text string, payloadLen int,
	match func(*AddressParams, string) ([2]byte, bool)) (*AddressParams,
	[2]byte, []byte, error) {

	var (
		params *AddressParams
		prefix [2]byte
	)
	for _, p := range allParams {
		if id, ok := match(p, text); ok {
			params, prefix = p, id
			break
		}
	}
	if params == nil {
		return nil, prefix, nil, ErrUnrecognizedAddress
	}

	decoded := base58.Decode(text)
	if len(decoded) != 2+payloadLen+checksumLen {
		str := fmt.Sprintf("base58check address decodes to %d bytes, "+
			"want %d", len(decoded), 2+payloadLen+checksumLen)
		return nil, prefix, nil, makeError(ErrMalformedAddress, str)
	}

	body := decoded[:2+payloadLen]
	checkSum := decoded[2+payloadLen:]
	if !bytes.Equal(checkSum, chainhash.DoubleHashB(body)[:checksumLen]) {
		return nil, prefix, nil, makeError(ErrBadAddressChecksum,
			"bad base58check address checksum")
	}

	if !bytes.Equal(body[:2], prefix[:]) {
		str := fmt.Sprintf("address prefix %x does not match %q",
			body[:2], text[:2])
		return nil, prefix, nil, makeError(ErrMalformedAddressData, str)
	}

	return params, prefix, body[2:], nil
}

// decodeTransparent decodes a P2PKH or P2SH address of either network.
func decodeTransparent(text string) (Address, error) {
	params, prefix, payload, err := decodeBase58Check(text, 20,
		func(p *AddressParams, text string) ([2]byte, bool) {
			switch {
			case strings.HasPrefix(text, p.PubKeyHashPrefix):
				return p.PubKeyHashAddrID, true
			case strings.HasPrefix(text, p.ScriptHashPrefix):
				return p.ScriptHashAddrID, true
			}
			return [2]byte{}, false
		},
	)
	if err != nil {
		return nil, err
	}

	if prefix == params.PubKeyHashAddrID {
		return NewTransparentP2PKHAddress(
			TransparentP2PKHReceiver(payload), params.Net), nil
	}
	return NewTransparentP2SHAddress(
		TransparentP2SHReceiver(payload), params.Net), nil
}
