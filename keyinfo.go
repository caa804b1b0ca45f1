package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	gobip32 "github.com/blockchainspectre/go-bip32"
	"github.com/zcashkit/zkeys/bip32"
	"github.com/zcashkit/zkeys/wallet"
)

// KeyInfo is the analysis of one extended key.
type KeyInfo struct {
	Raw               string
	Network           bip32.Network
	KeyType           string
	Depth             uint8
	ParentFingerprint string
	ChildNumber       uint32
	ChainCode         string
	PublicKey         string
	PublicKeyHash160  string
	Fingerprint       string
	DerivationPath    string
	Addresses         *TransparentAddresses

	// FirstReceive is the first external address when the key sits at
	// account depth, otherwise empty.
	FirstReceive string

	Version   []byte
	IsPrivate bool
	Key       bip32.ExtendedKey
	BIP32Key  *gobip32.Key
}

// KeyOrigin is a key with its origin, as written in output descriptors:
//
//	pkh([d34db33f/44'/133'/0']xpub.../0/*)
type KeyOrigin struct {
	Type        string // pkh, sh, ... or empty for a bare key
	Fingerprint string
	Path        *bip32.KeyPath
	Key         string
	Derivation  string // e.g. /0/* or /<0;1>/*
}

// String formats the key origin without the surrounding script type.
func (o *KeyOrigin) String() string {
	var sb strings.Builder
	if o.Path != nil {
		sb.WriteByte('[')
		sb.WriteString(o.Fingerprint)
		sb.WriteString(strings.TrimPrefix(o.Path.String(), "m"))
		sb.WriteByte(']')
	}
	sb.WriteString(o.Key)
	sb.WriteString(o.Derivation)
	return sb.String()
}

// DisplayInfo writes the analysis of an extended key to w.
func DisplayInfo(w io.Writer, info *KeyInfo) {
	fmt.Fprintln(w, "=== Zcash Extended Key Analysis ===")
	fmt.Fprintf(w, "Raw Key: %s\n", info.Raw)
	fmt.Fprintf(w, "Network: %s\n", info.Network)
	fmt.Fprintf(w, "Key Type: %s\n", info.KeyType)
	fmt.Fprintf(w, "Depth: %d\n", info.Depth)
	fmt.Fprintf(w, "Parent Fingerprint: %s\n", info.ParentFingerprint)
	fmt.Fprintf(w, "Child Number: %d\n", info.ChildNumber)

	if info.ChildNumber >= bip32.HardenedKeyStart {
		fmt.Fprintf(w, "  (Hardened: %d)\n",
			info.ChildNumber-bip32.HardenedKeyStart)
	}

	fmt.Fprintf(w, "Chain Code: %s\n", info.ChainCode)
	fmt.Fprintf(w, "Public Key: %s\n", info.PublicKey)
	fmt.Fprintf(w, "Public Key Hash160: %s\n", info.PublicKeyHash160)
	fmt.Fprintf(w, "Fingerprint: %s\n", info.Fingerprint)
	fmt.Fprintf(w, "Derivation Path: %s\n", info.DerivationPath)
	fmt.Fprintf(w, "Is Private: %v\n", info.IsPrivate)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Addresses ===")
	fmt.Fprintf(w, "P2PKH: %s\n", info.Addresses.P2PKH)
	fmt.Fprintf(w, "P2SH (1-of-1 multisig): %s\n", info.Addresses.P2SHMultisig)
	if info.FirstReceive != "" {
		fmt.Fprintf(w, "First receive (0/0): %s\n", info.FirstReceive)
	}
	fmt.Fprintln(w)

	if info.Version != nil {
		fmt.Fprintf(w, "Version Bytes: %x\n", info.Version)
	}
}

// DisplayKeyOrigin writes a parsed key origin to w.
func DisplayKeyOrigin(w io.Writer, origin *KeyOrigin) {
	fmt.Fprintln(w, "=== Key Origin ===")
	if origin.Type != "" {
		fmt.Fprintf(w, "Type: %s\n", origin.Type)
	}
	if origin.Path != nil {
		fmt.Fprintf(w, "Fingerprint: %s\n", origin.Fingerprint)
		fmt.Fprintf(w, "Path: %s\n", origin.Path)
	}
	fmt.Fprintf(w, "Key: %s\n", origin.Key)
	if origin.Derivation != "" {
		fmt.Fprintf(w, "Derivation: %s\n", origin.Derivation)
	}
	fmt.Fprintln(w)
}

// KeyAnalyzer inspects extended keys for one network.
type KeyAnalyzer struct {
	Net bip32.Network
}

// NewKeyAnalyzer creates an analyzer for the named network.
func NewKeyAnalyzer(network string) (*KeyAnalyzer, error) {
	net, err := bip32.ParseNetwork(network)
	if err != nil {
		return nil, err
	}
	return &KeyAnalyzer{Net: net}, nil
}

// Analyze parses an xprv, xpub, tprv or tpub and describes it.
func (a *KeyAnalyzer) Analyze(text string) (*KeyInfo, error) {
	key, err := bip32.ParseExtendedKey(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extended key: %w", err)
	}
	if key.Network() != a.Net {
		return nil, fmt.Errorf("key is for %v, not %v", key.Network(),
			a.Net)
	}

	return a.describe(text, key)
}

func (a *KeyAnalyzer) describe(text string, key bip32.ExtendedKey) (*KeyInfo, error) {
	pub := key.Public()
	compressedPubKey := pub.PubKeyBytes()
	id := key.Identifier()

	addresses, err := GenerateTransparentAddresses(compressedPubKey,
		key.Network())
	if err != nil {
		return nil, fmt.Errorf("failed to generate addresses: %w", err)
	}

	info := &KeyInfo{
		Raw:               text,
		Network:           key.Network(),
		KeyType:           identifyKeyType(text),
		Depth:             key.Depth(),
		ParentFingerprint: fmt.Sprintf("%08x", key.ParentFingerprint()),
		ChildNumber:       key.ChildIndex(),
		ChainCode:         hex.EncodeToString(key.ChainCode()),
		PublicKey:         hex.EncodeToString(compressedPubKey),
		PublicKeyHash160:  hex.EncodeToString(id[:]),
		Fingerprint:       hex.EncodeToString(id[:bip32.FingerprintLen]),
		DerivationPath:    a.derivationPath(key),
		Addresses:         addresses,
		IsPrivate:         key.IsPrivate(),
		Key:               key,
	}

	if key.Depth() == 3 && key.ChildIndex() >= bip32.HardenedKeyStart {
		addr, err := wallet.AccountAddress(pub, wallet.ExternalBranch, 0)
		if err == nil {
			info.FirstReceive = addr.String()
		} else {
			log.Debugf("No first receive address for %s: %v", text, err)
		}
	}

	// Cross check with go-bip32 for the raw version bytes.
	bip32Key, err := bip32.ToBIP32Key(key)
	if err == nil {
		info.BIP32Key = bip32Key
		info.Version = bip32Key.Version
	} else {
		log.Debugf("go-bip32 could not decode %s: %v", text, err)
	}

	return info, nil
}

// identifyKeyType names the key by its base58 prefix.
func identifyKeyType(text string) string {
	for _, prefix := range []string{"xpub", "xprv", "tpub", "tprv"} {
		if strings.HasPrefix(text, prefix) {
			return prefix
		}
	}
	return "unknown"
}

// derivationPath returns the path of the key when known.  Otherwise it guesses
// the BIP-44 path from the depth, with i standing in for unknown indices.
func (a *KeyAnalyzer) derivationPath(key bip32.ExtendedKey) string {
	if path := key.Path(); path != nil {
		return path.String()
	}
	return a.buildStandardPath(key.Depth(), key.ChildIndex())
}

// buildStandardPath builds the BIP-44 path a key at depth most likely sits
// at.
func (a *KeyAnalyzer) buildStandardPath(depth uint8, childIndex uint32) string {
	last := formatIndex(childIndex)
	coinType := wallet.CoinType(a.Net)

	switch depth {
	case 0:
		return "m"
	case 1:
		// m/purpose'
		return "m/" + last
	case 2:
		// m/purpose'/coin_type'
		return fmt.Sprintf("m/%d'/%s", wallet.PurposeBIP44, last)
	case 3:
		// m/purpose'/coin_type'/account'
		return fmt.Sprintf("m/%d'/%d'/%s", wallet.PurposeBIP44, coinType,
			last)
	case 4:
		// m/purpose'/coin_type'/account'/change
		return fmt.Sprintf("m/%d'/%d'/i'/%s", wallet.PurposeBIP44,
			coinType, last)
	case 5:
		// m/purpose'/coin_type'/account'/change/address_index
		return fmt.Sprintf("m/%d'/%d'/i'/i/%s", wallet.PurposeBIP44,
			coinType, last)
	default:
		return "m" + strings.Repeat("/i", int(depth)-1) + "/" + last
	}
}

func formatIndex(index uint32) string {
	if index >= bip32.HardenedKeyStart {
		return fmt.Sprintf("%d'", index-bip32.HardenedKeyStart)
	}
	return fmt.Sprintf("%d", index)
}

// DeriveChild derives the child at index of an extended key.  Public keys
// can only derive non-hardened children.
func (a *KeyAnalyzer) DeriveChild(text string, index uint32) (*KeyInfo, error) {
	return a.DeriveFromPath(text, bip32.NewPath(index))
}

// DeriveFromPath derives path relative to an extended key, so m/0/1 below an
// account key is the account's second external address key.
func (a *KeyAnalyzer) DeriveFromPath(text string, path *bip32.KeyPath) (*KeyInfo, error) {
	key, err := bip32.ParseExtendedKey(text)
	if err != nil {
		return nil, err
	}

	var derived bip32.ExtendedKey
	switch k := key.(type) {
	case *bip32.ExtendedPrivateKey:
		child, err := k.DerivePath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %v: %w", path, err)
		}
		derived = child

	case *bip32.ExtendedPublicKey:
		child, err := k.DerivePath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %v: %w", path, err)
		}
		derived = child
	}

	return a.describe(derived.String(), derived)
}

// ParseKeyOrigin parses a key expression such as
// pkh([d34db33f/44'/133'/0']xpub.../0/*) or [d34db33f/44'/133'/0']xpub...
func (a *KeyAnalyzer) ParseKeyOrigin(descriptor string) (*KeyOrigin, error) {
	descriptor = strings.TrimSpace(descriptor)

	origin := &KeyOrigin{}
	content := descriptor
	if strings.HasSuffix(descriptor, ")") {
		openParen := strings.Index(descriptor, "(")
		if openParen <= 0 {
			return nil, errors.New("invalid descriptor format")
		}
		origin.Type = descriptor[:openParen]
		content = descriptor[openParen+1 : len(descriptor)-1]
	}

	if strings.HasPrefix(content, "[") {
		closeBracket := strings.Index(content, "]")
		if closeBracket == -1 {
			return nil, errors.New("invalid key origin format")
		}

		fingerprint, pathText, _ := strings.Cut(content[1:closeBracket], "/")
		if err := checkFingerprint(fingerprint); err != nil {
			return nil, err
		}
		path := bip32.Root
		if pathText != "" {
			// Descriptors may mark hardened steps with h.
			pathText = strings.ReplaceAll(pathText, "h", "'")

			var err error
			path, err = bip32.ParsePath("m/" + pathText)
			if err != nil {
				return nil, fmt.Errorf("invalid key origin "+
					"path: %w", err)
			}
		}

		origin.Fingerprint = fingerprint
		origin.Path = path
		content = content[closeBracket+1:]
	}

	origin.Key, origin.Derivation = content, ""
	if slashIdx := strings.Index(content, "/"); slashIdx != -1 {
		origin.Key = content[:slashIdx]
		origin.Derivation = content[slashIdx:]
	}

	key, err := bip32.ParseExtendedKey(origin.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid key in descriptor: %w", err)
	}
	if origin.Path != nil && int(key.Depth()) != origin.Path.Len() {
		return nil, fmt.Errorf("key depth %d does not match origin "+
			"path %v", key.Depth(), origin.Path)
	}

	return origin, nil
}

// KeyOriginFor returns the key origin of an account key derived from a
// master key with the given fingerprint.
func KeyOriginFor(masterFingerprint uint32, key bip32.ExtendedKey) *KeyOrigin {
	var fp [4]byte
	binary.BigEndian.PutUint32(fp[:], masterFingerprint)
	return &KeyOrigin{
		Fingerprint: hex.EncodeToString(fp[:]),
		Path:        key.Path(),
		Key:         key.Public().String(),
	}
}

func checkFingerprint(fingerprint string) error {
	b, err := hex.DecodeString(fingerprint)
	if err != nil || len(b) != bip32.FingerprintLen {
		return fmt.Errorf("invalid key origin fingerprint %q",
			fingerprint)
	}
	return nil
}
