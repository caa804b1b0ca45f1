package zcash

import (
	"fmt"

	"github.com/zcashkit/zkeys/bip32"
)

// Network identifies the Zcash network an address belongs to.  It is the same
// type used for extended keys so one value selects both.
type Network = bip32.Network

const (
	// MainNet is the Zcash production network.
	MainNet = bip32.MainNet

	// TestNet is the Zcash public test network.
	TestNet = bip32.TestNet
)

// AddressParams holds the encoding prefixes of every address kind for one
// network.
type AddressParams struct {
	Net Network

	// Two-byte base58check prefixes.
	PubKeyHashAddrID [2]byte
	ScriptHashAddrID [2]byte
	SproutAddrID     [2]byte

	// Leading characters every base58check address with the matching
	// prefix above starts with.
	PubKeyHashPrefix string
	ScriptHashPrefix string
	SproutPrefix     string

	// Human-readable parts of the bech32 encodings.
	SaplingHRP string
	UnifiedHRP string
}

// MainNetAddressParams are the address prefixes of the production network.
var MainNetAddressParams = AddressParams{
	Net:              MainNet,
	PubKeyHashAddrID: [2]byte{0x1c, 0xb8},
	ScriptHashAddrID: [2]byte{0x1c, 0xbd},
	SproutAddrID:     [2]byte{0x16, 0x9a},
	PubKeyHashPrefix: "t1",
	ScriptHashPrefix: "t3",
	SproutPrefix:     "zc",
	SaplingHRP:       "zs",
	UnifiedHRP:       "u",
}

// TestNetAddressParams are the address prefixes of the public test network.
var TestNetAddressParams = AddressParams{
	Net:              TestNet,
	PubKeyHashAddrID: [2]byte{0x1d, 0x25},
	ScriptHashAddrID: [2]byte{0x1c, 0xba},
	SproutAddrID:     [2]byte{0x16, 0xb6},
	PubKeyHashPrefix: "tm",
	ScriptHashPrefix: "t2",
	SproutPrefix:     "zt",
	SaplingHRP:       "ztestsapling",
	UnifiedHRP:       "utest",
}

var allParams = []*AddressParams{&MainNetAddressParams, &TestNetAddressParams}

// Params returns the address prefixes of net.  It panics on a network value
// that is not MainNet or TestNet.
func Params(net Network) *AddressParams {
	switch net {
	case MainNet:
		return &MainNetAddressParams
	case TestNet:
		return &TestNetAddressParams
	default:
		panic(fmt.Sprintf("zcash: unknown network %v", net))
	}
}

// Pool is a Zcash value pool.  Funds sent to a receiver land in its pool.
type Pool uint8

const (
	// PoolTransparent is the Bitcoin-style transparent pool.
	PoolTransparent Pool = iota

	// PoolSprout is the original shielded pool.
	PoolSprout

	// PoolSapling is the Sapling shielded pool.
	PoolSapling

	// PoolOrchard is the Orchard shielded pool.
	PoolOrchard
)

// String returns the pool name.
func (p Pool) String() string {
	switch p {
	case PoolTransparent:
		return "transparent"
	case PoolSprout:
		return "sprout"
	case PoolSapling:
		return "sapling"
	case PoolOrchard:
		return "orchard"
	default:
		return fmt.Sprintf("Pool(%d)", uint8(p))
	}
}

// IsShielded reports whether the pool hides amounts and parties.
func (p Pool) IsShielded() bool {
	return p != PoolTransparent
}
