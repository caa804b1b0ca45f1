package zcash

import "fmt"

// addressKind is one entry of the closed set of address codecs ParseAddress
// tries.
type addressKind struct {
	name   string
	decode func(text string) (Address, error)
}

// addressKinds lists the codecs in the order they are tried.
var addressKinds = []addressKind{
	{name: "transparent", decode: decodeTransparent},
	{name: "sapling", decode: decodeSapling},
	{name: "sprout", decode: decodeSprout},
	{name: "unified", decode: decodeUnified},
}

// ParseAddress decodes an address of any supported kind and network.
//
// Each kind is tried in turn.  A kind that does not recognize the text passes
// it on, but any other failure, such as a bad checksum on a recognized
// prefix, is returned immediately.  When no kind recognizes the text the
// error kind is ErrUnrecognizedAddress.
func ParseAddress(text string) (Address, error) {
	addr, err := parseAddress(text)
	if err == ErrUnrecognizedAddress {
		return nil, makeError(ErrUnrecognizedAddress,
			"unrecognized address type")
	}
	return addr, err
}

// TryParseAddress is ParseAddress for callers that only branch on the error
// kind.  On failure it returns the kind and false.  Text that no kind
// recognizes is rejected without building an error description.
func TryParseAddress(text string) (Address, ErrorKind, bool) {
	addr, err := parseAddress(text)
	if err != nil {
		return nil, errorKindOf(err), false
	}
	return addr, "", true
}

// parseAddress runs the dispatch loop.  Decoders report text they do not
// recognize as the bare ErrUnrecognizedAddress kind.
func parseAddress(text string) (Address, error) {
	for _, kind := range addressKinds {
		addr, err := kind.decode(text)
		if err == nil {
			return addr, nil
		}
		if err != ErrUnrecognizedAddress {
			log.Debugf("Address rejected as %s: %v", kind.name, err)
			return nil, err
		}
	}

	return nil, ErrUnrecognizedAddress
}

// DecodeAddress decodes an address and checks that it belongs to net.
func DecodeAddress(text string, net Network) (Address, error) {
	addr, err := ParseAddress(text)
	if err != nil {
		return nil, err
	}
	if addr.Network() != net {
		str := fmt.Sprintf("address %s is for %v, not %v", text,
			addr.Network(), net)
		return nil, makeError(ErrWrongNetwork, str)
	}
	return addr, nil
}
