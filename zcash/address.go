package zcash

// Address is a decoded Zcash address of any kind.
type Address interface {
	// String returns the canonical encoding of the address.
	String() string

	// Network returns the network the address belongs to.
	Network() Network

	// SupportsPool reports whether the address carries a receiver for
	// the pool.
	SupportsPool(pool Pool) bool

	// Receivers returns every known receiver carried by the address.
	// Legacy kinds carry exactly one.
	Receivers() []Receiver

	// Equal reports whether both addresses have the same encoding.
	Equal(other Address) bool
}

// Ensure every address kind implements the Address interface.
var (
	_ Address = (*TransparentP2PKHAddress)(nil)
	_ Address = (*TransparentP2SHAddress)(nil)
	_ Address = (*SproutAddress)(nil)
	_ Address = (*SaplingAddress)(nil)
	_ Address = (*UnifiedAddress)(nil)
)

// encoded holds what every address kind shares: its string form and network.
type encoded struct {
	text string
	net  Network
}

// String returns the canonical encoding of the address.
func (e *encoded) String() string {
	return e.text
}

// Network returns the network the address belongs to.
func (e *encoded) Network() Network {
	return e.net
}

// Equal reports whether both addresses have the same encoding.
func (e *encoded) Equal(other Address) bool {
	return other != nil && e.text == other.String()
}

// GetReceiver returns the receiver of type T carried by addr, if any.
//
//	sapling, ok := zcash.GetReceiver[zcash.SaplingReceiver](addr)
func GetReceiver[T Receiver](addr Address) (T, bool) {
	for _, r := range addr.Receivers() {
		if t, ok := r.(T); ok {
			return t, true
		}
	}

	var zero T
	return zero, false
}
