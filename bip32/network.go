package bip32

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects the version bytes of serialized extended keys and the
// address prefixes used by callers.
type Network uint8

const (
	// MainNet is the production network.
	MainNet Network = iota

	// TestNet is the public test network.
	TestNet
)

// String returns the network name as accepted by ParseNetwork.
func (n Network) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	default:
		return fmt.Sprintf("Network(%d)", uint8(n))
	}
}

// ParseNetwork maps a network name to a Network.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return MainNet, nil
	case "testnet", "testnet3", "test":
		return TestNet, nil
	default:
		return 0, fmt.Errorf("unknown network: %s", name)
	}
}

// chainParams returns the btcd parameters that carry the same HD version
// bytes as the network.  Zcash transparent keys use the Bitcoin values.
func (n Network) chainParams() *chaincfg.Params {
	if n == TestNet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// lookupVersion maps serialized version bytes back to a network and whether
// they denote a private key.
func lookupVersion(version [4]byte) (Network, bool, bool) {
	for _, net := range []Network{MainNet, TestNet} {
		params := net.chainParams()
		switch version {
		case params.HDPrivateKeyID:
			return net, true, true
		case params.HDPublicKeyID:
			return net, false, true
		}
	}
	return 0, false, false
}
