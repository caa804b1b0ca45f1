package wallet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cosmos/go-bip39"
	"github.com/zcashkit/zkeys/bip32"
	"github.com/zcashkit/zkeys/zcash"
)

const (
	// PurposeBIP44 is the purpose index of BIP-44 account paths.
	PurposeBIP44 = 44

	// CoinTypeZcash is the SLIP-44 coin type of Zcash main net.
	CoinTypeZcash = 133

	// CoinTypeTestNet is the SLIP-44 coin type shared by all test networks.
	CoinTypeTestNet = 1

	// ExternalBranch and InternalBranch are the BIP-44 change levels for
	// receiving and change addresses.
	ExternalBranch = 0
	InternalBranch = 1
)

var (
	// ErrInvalidMnemonic is returned for a mnemonic that is not a valid
	// BIP-39 sentence.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidEntropyBits is returned by GenerateMnemonic for an entropy
	// size BIP-39 does not define.
	ErrInvalidEntropyBits = errors.New("invalid entropy bits")

	// ErrInvalidIndex is returned for an account, branch or address index
	// outside the range BIP-44 allows.
	ErrInvalidIndex = errors.New("invalid BIP-44 index")
)

// GenerateMnemonic creates a new random mnemonic.  entropyBits must be a
// multiple of 32 between 128 and 256.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits%32 != 0 || entropyBits < 128 || entropyBits > 256 {
		return "", fmt.Errorf("%w: %d", ErrInvalidEntropyBits, entropyBits)
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", err
	}
	defer clear(entropy)

	return bip39.NewMnemonic(entropy)
}

// Wallet derives Zcash transparent keys and addresses from a BIP-39 seed.  It
// owns its seed and master key until Zero is called.
type Wallet struct {
	seed []byte
	root *bip32.ExtendedPrivateKey
	net  bip32.Network
}

// New creates a wallet from a mnemonic and optional passphrase.
func New(mnemonic, passphrase string, net bip32.Network) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	w, err := NewFromSeed(seed, net)
	clear(seed)
	return w, err
}

// NewFromSeed creates a wallet from a raw seed.  The seed is copied.
func NewFromSeed(seed []byte, net bip32.Network) (*Wallet, error) {
	root, err := bip32.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	id := root.Identifier()
	log.Debugf("Created %v wallet with master fingerprint %x", net,
		id[:bip32.FingerprintLen])

	return &Wallet{
		seed: append([]byte(nil), seed...),
		root: root,
		net:  net,
	}, nil
}

// Network returns the network the wallet derives keys for.
func (w *Wallet) Network() bip32.Network {
	return w.net
}

// Seed returns a copy of the wallet seed.
func (w *Wallet) Seed() []byte {
	return append([]byte(nil), w.seed...)
}

// MasterFingerprint returns the first four bytes of the master key
// identifier, as used in key origin descriptors.
func (w *Wallet) MasterFingerprint() uint32 {
	id := w.root.Identifier()
	return binary.BigEndian.Uint32(id[:bip32.FingerprintLen])
}

// DerivePath derives the private key at path from the master key.  The caller
// owns the result, including for the root path.
func (w *Wallet) DerivePath(path *bip32.KeyPath) (*bip32.ExtendedPrivateKey, error) {
	if path.IsRoot() {
		return bip32.NewMaster(w.seed, w.net)
	}
	return w.root.DerivePath(path)
}

// CoinType returns the SLIP-44 coin type for net.
func CoinType(net bip32.Network) uint32 {
	if net == bip32.TestNet {
		return CoinTypeTestNet
	}
	return CoinTypeZcash
}

// AccountPath returns m/44'/coin_type'/account'.
func AccountPath(net bip32.Network, account uint32) (*bip32.KeyPath, error) {
	if account >= bip32.HardenedBit {
		return nil, fmt.Errorf("%w: account %d", ErrInvalidIndex, account)
	}

	return bip32.NewPath(
		PurposeBIP44|bip32.HardenedBit,
		CoinType(net)|bip32.HardenedBit,
		account|bip32.HardenedBit,
	), nil
}

// TransparentAccount derives the BIP-44 account key for account.
func (w *Wallet) TransparentAccount(account uint32) (*bip32.ExtendedPrivateKey, error) {
	path, err := AccountPath(w.net, account)
	if err != nil {
		return nil, err
	}

	key, err := w.root.DerivePath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account %d: %w",
			account, err)
	}
	return key, nil
}

// TransparentAddress returns the P2PKH address at
// m/44'/coin_type'/account'/change/index.
func (w *Wallet) TransparentAddress(account, change,
	index uint32) (*zcash.TransparentP2PKHAddress, error) {

	accountKey, err := w.TransparentAccount(account)
	if err != nil {
		return nil, err
	}
	defer accountKey.Zero()

	return AccountAddress(accountKey.Public(), change, index)
}

// AccountAddress returns the P2PKH address at change/index below a BIP-44
// account public key.  It needs no secrets, so watch-only callers can use it
// with an account xpub.
func AccountAddress(accountKey *bip32.ExtendedPublicKey, change,
	index uint32) (*zcash.TransparentP2PKHAddress, error) {

	if change != ExternalBranch && change != InternalBranch {
		return nil, fmt.Errorf("%w: change %d", ErrInvalidIndex, change)
	}
	if index >= bip32.HardenedBit {
		return nil, fmt.Errorf("%w: address index %d", ErrInvalidIndex,
			index)
	}

	key, err := accountKey.DerivePath(bip32.NewPath(change, index))
	if err != nil {
		return nil, fmt.Errorf("failed to derive address %d/%d: %w",
			change, index, err)
	}

	addr := zcash.NewTransparentP2PKHAddress(
		zcash.NewP2PKHReceiver(key.PubKeyBytes()), accountKey.Network(),
	)
	log.Tracef("Derived %v at %d/%d", addr, change, index)
	return addr, nil
}

// Zero wipes the seed and master key.  The wallet must not be used
// afterwards.
func (w *Wallet) Zero() {
	clear(w.seed)
	w.root.Zero()
}
