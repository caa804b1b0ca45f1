package bip32

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidKeyPath indicates a derivation path string that is not of
	// the form m/<index>[']/... .
	ErrInvalidKeyPath = ErrorKind("ErrInvalidKeyPath")

	// ErrPathOutOfRange indicates a request for a path level or ancestor
	// beyond the length of the path.
	ErrPathOutOfRange = ErrorKind("ErrPathOutOfRange")

	// ErrInvalidSeedLen indicates the seed provided to NewMaster is not
	// within the allowed range.
	ErrInvalidSeedLen = ErrorKind("ErrInvalidSeedLen")

	// ErrUnusableSeed indicates the seed produced a master secret that is
	// not a valid secp256k1 scalar.  A different seed is required.
	ErrUnusableSeed = ErrorKind("ErrUnusableSeed")

	// ErrInvalidChild indicates the child at the requested index is
	// invalid: the tweak is not below the group order or the resulting
	// key is zero / the point at infinity.  The caller should move on to
	// the next index.  This is extremely unlikely to ever happen.
	ErrInvalidChild = ErrorKind("ErrInvalidChild")

	// ErrDeriveHardFromPublic indicates an attempt to derive a hardened
	// child from a public extended key.
	ErrDeriveHardFromPublic = ErrorKind("ErrDeriveHardFromPublic")

	// ErrDeriveBeyondMaxDepth indicates an attempt to derive a child of a
	// key that is already at the maximum depth of 255.
	ErrDeriveBeyondMaxDepth = ErrorKind("ErrDeriveBeyondMaxDepth")

	// ErrInvalidKeyLen indicates a serialized extended key with the wrong
	// length.
	ErrInvalidKeyLen = ErrorKind("ErrInvalidKeyLen")

	// ErrBadChecksum indicates a serialized extended key whose checksum
	// does not match.
	ErrBadChecksum = ErrorKind("ErrBadChecksum")

	// ErrUnknownVersion indicates a serialized extended key with version
	// bytes that do not belong to any supported network.
	ErrUnknownVersion = ErrorKind("ErrUnknownVersion")

	// ErrInvalidKeyData indicates a serialized extended key whose key
	// material or header fields are not valid.
	ErrInvalidKeyData = ErrorKind("ErrInvalidKeyData")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to key paths and extended keys.  It has
// full support for errors.Is and errors.As, so the caller can ascertain the
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
