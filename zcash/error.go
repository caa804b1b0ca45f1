package zcash

import "errors"

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrUnrecognizedAddress indicates the text is not shaped like the
	// address kind being tried.  The dispatcher treats it as "try the next
	// kind"; it is the only recoverable kind.
	ErrUnrecognizedAddress = ErrorKind("ErrUnrecognizedAddress")

	// ErrBadAddressChecksum indicates an address of a recognized kind whose
	// base58check or bech32 checksum does not verify.
	ErrBadAddressChecksum = ErrorKind("ErrBadAddressChecksum")

	// ErrMalformedAddress indicates an address of a recognized kind whose
	// textual encoding is invalid, for example mixed case bech32.
	ErrMalformedAddress = ErrorKind("ErrMalformedAddress")

	// ErrMalformedAddressData indicates an address whose checksum verifies
	// but whose payload is not a valid encoding of its receivers.
	ErrMalformedAddressData = ErrorKind("ErrMalformedAddressData")

	// ErrWrongNetwork indicates an address or receiver set that belongs to
	// a network other than the one requested.
	ErrWrongNetwork = ErrorKind("ErrWrongNetwork")

	// ErrInvalidReceiver indicates a receiver set that cannot form the
	// requested address, such as a Sprout receiver in a unified address.
	ErrInvalidReceiver = ErrorKind("ErrInvalidReceiver")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an address decoding or encoding error.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// errorKindOf returns the kind carried by err, or the empty kind when err does
// not come from this package.  err may be a bare ErrorKind.
func errorKindOf(err error) ErrorKind {
	var kind ErrorKind
	if !errors.As(err, &kind) {
		return ""
	}
	return kind
}
