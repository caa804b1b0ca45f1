package zcash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// splitHRP returns the lower cased human-readable part of a bech32 string
// without validating anything else.
func splitHRP(text string) (string, bool) {
	one := strings.LastIndexByte(text, '1')
	if one < 1 {
		return "", false
	}
	return strings.ToLower(text[:one]), true
}

// findParams returns the network whose hrp (as chosen by pick) is hrp.
func findParams(hrp string, pick func(*AddressParams) string) *AddressParams {
	for _, p := range allParams {
		if pick(p) == hrp {
			return p
		}
	}
	return nil
}

// decodeBech32 decodes text and checks that it carries the wanted checksum
// variant.  The length limit of 90 characters applies only when limit is
// set.
func decodeBech32(text string, want bech32.Version, limit bool) ([]byte, error) {
	var (
		data    []byte
		version = want
		err     error
	)
	if limit {
		_, data, version, err = bech32.DecodeGeneric(text)
	} else {
		_, data, err = bech32.DecodeNoLimit(text)
	}

	var checksumErr bech32.ErrInvalidChecksum
	switch {
	case errors.As(err, &checksumErr):
		return nil, makeError(ErrBadAddressChecksum,
			fmt.Sprintf("bad bech32 address checksum: %v", err))

	case err != nil:
		return nil, makeError(ErrMalformedAddress,
			fmt.Sprintf("malformed bech32 address: %v", err))
	}

	// DecodeNoLimit accepts both checksum variants without saying which
	// one verified, so re-encode to tell them apart.
	if !limit {
		hrp, _ := splitHRP(text)
		encoded, err := bech32.EncodeM(hrp, data)
		if err != nil || encoded != strings.ToLower(text) {
			version = bech32.Version0
		}
	}

	if version != want {
		return nil, makeError(ErrBadAddressChecksum,
			"address carries the wrong bech32 checksum variant")
	}

	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, makeError(ErrMalformedAddressData,
			fmt.Sprintf("invalid bech32 data: %v", err))
	}
	return decoded, nil
}

// encodeBech32 encodes payload with the given checksum variant.
func encodeBech32(hrp string, payload []byte, version bech32.Version) string {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		panic(fmt.Sprintf("zcash: converting address payload: %v", err))
	}

	var text string
	if version == bech32.VersionM {
		text, err = bech32.EncodeM(hrp, data)
	} else {
		text, err = bech32.Encode(hrp, data)
	}
	if err != nil {
		panic(fmt.Sprintf("zcash: bech32 encoding address: %v", err))
	}
	return text
}
