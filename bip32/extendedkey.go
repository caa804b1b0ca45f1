package bip32

// References:
//   [BIP32]: BIP0032 - Hierarchical Deterministic Wallets
//   https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// RecommendedSeedLen is the recommended length in bytes for a seed
	// to a master node.
	RecommendedSeedLen = 32 // 256 bits

	// HardenedKeyStart is the index at which a hardened key starts.
	HardenedKeyStart = HardenedBit

	// MinSeedBytes is the minimum number of bytes allowed for a seed to
	// a master node.
	MinSeedBytes = 16 // 128 bits

	// MaxSeedBytes is the maximum number of bytes allowed for a seed to
	// a master node.
	MaxSeedBytes = 64 // 512 bits

	// MaxDepth is the depth of the deepest key that can exist.
	MaxDepth = 255

	// IdentifierLen is the length of a key identifier, a Hash160 of the
	// compressed public key.
	IdentifierLen = 20

	// FingerprintLen is the length of the identifier prefix stored as a
	// child's parent fingerprint.
	FingerprintLen = 4

	chainCodeLen = 32
	pubKeyLen    = btcec.PubKeyBytesLenCompressed
)

// masterKey is the master key used along with a random seed used to generate
// the master node in the hierarchical tree.
var masterKey = []byte("Bitcoin seed")

// ExtendedKey is the behavior shared by private and public extended keys.
type ExtendedKey interface {
	// IsPrivate returns whether the key carries a private scalar.
	IsPrivate() bool

	// Public returns the public extended key.
	Public() *ExtendedPublicKey

	ChainCode() []byte
	Depth() uint8
	ParentFingerprint() uint32
	ChildIndex() uint32
	Network() Network
	Path() *KeyPath
	Identifier() [IdentifierLen]byte
	Serialize() []byte
	String() string
}

// keyHeader holds the positional metadata shared by both key kinds.
type keyHeader struct {
	chainCode  [chainCodeLen]byte
	parentFP   [FingerprintLen]byte
	childIndex uint32
	depth      uint8
	network    Network

	// path is a diagnostic annotation.  It is nil when the key was
	// deserialized below the root and its ancestry is unknown.
	path *KeyPath
}

// childHeader returns the header of the child of h at index.
func (h *keyHeader) childHeader(id *[IdentifierLen]byte, index uint32,
	chainCode []byte) keyHeader {

	child := keyHeader{
		childIndex: index,
		depth:      h.depth + 1,
		network:    h.network,
	}
	copy(child.chainCode[:], chainCode)
	copy(child.parentFP[:], id[:FingerprintLen])
	if h.path != nil {
		child.path = h.path.Append(index)
	}
	return child
}

// ChainCode returns a copy of the chain code.
func (h *keyHeader) ChainCode() []byte {
	c := h.chainCode
	return c[:]
}

// Depth returns the number of derivations from the master key.
func (h *keyHeader) Depth() uint8 {
	return h.depth
}

// ParentFingerprint returns the fingerprint of the parent key, 0 for a
// master key.
func (h *keyHeader) ParentFingerprint() uint32 {
	return binary.BigEndian.Uint32(h.parentFP[:])
}

// ChildIndex returns the index this key was derived at, including
// HardenedBit.  It is 0 for a master key.
func (h *keyHeader) ChildIndex() uint32 {
	return h.childIndex
}

// Network returns the network the key is serialized for.
func (h *keyHeader) Network() Network {
	return h.network
}

// Path returns the derivation path of the key when known, otherwise nil.
func (h *keyHeader) Path() *KeyPath {
	return h.path
}

// ExtendedPublicKey is a public key together with the chain code and the
// metadata required to derive its non-hardened children.
type ExtendedPublicKey struct {
	keyHeader

	pubKey     *btcec.PublicKey
	serialized [pubKeyLen]byte
	identifier [IdentifierLen]byte
}

// Ensure ExtendedPublicKey implements the ExtendedKey interface.
var _ ExtendedKey = (*ExtendedPublicKey)(nil)

func newExtendedPublicKey(pubKey *btcec.PublicKey,
	header keyHeader) *ExtendedPublicKey {

	k := &ExtendedPublicKey{
		keyHeader: header,
		pubKey:    pubKey,
	}
	copy(k.serialized[:], pubKey.SerializeCompressed())
	k.identifier = Fingerprint(k.serialized[:])
	return k
}

// IsPrivate always returns false.
func (k *ExtendedPublicKey) IsPrivate() bool {
	return false
}

// Public returns k.
func (k *ExtendedPublicKey) Public() *ExtendedPublicKey {
	return k
}

// ECPubKey returns the secp256k1 public key.
func (k *ExtendedPublicKey) ECPubKey() *btcec.PublicKey {
	return k.pubKey
}

// PubKeyBytes returns a copy of the compressed public key.
func (k *ExtendedPublicKey) PubKeyBytes() []byte {
	b := k.serialized
	return b[:]
}

// Identifier returns the Hash160 of the compressed public key.
func (k *ExtendedPublicKey) Identifier() [IdentifierLen]byte {
	return k.identifier
}

// Derive returns the non-hardened child at index.  Public keys cannot derive
// hardened children, and asking for one returns ErrDeriveHardFromPublic.
//
// ErrInvalidChild is returned for the rare index whose child is not a valid
// key.  Callers are expected to skip to the next index.
func (k *ExtendedPublicKey) Derive(index uint32) (*ExtendedPublicKey, error) {
	if index >= HardenedKeyStart {
		str := fmt.Sprintf("cannot derive hardened child %d from a "+
			"public key", index&^HardenedBit)
		return nil, makeError(ErrDeriveHardFromPublic, str)
	}
	if k.depth == MaxDepth {
		return nil, makeError(ErrDeriveBeyondMaxDepth,
			"cannot derive a key with more than 255 indices in its path")
	}

	// data = serP(parentPubKey) || ser32(i)
	var data [pubKeyLen + 4]byte
	copy(data[:], k.serialized[:])
	binary.BigEndian.PutUint32(data[pubKeyLen:], index)

	lr := childHMAC(k.chainCode[:], data[:])
	defer clear(lr[:])

	var ilNum btcec.ModNScalar
	if overflow := ilNum.SetByteSlice(lr[:32]); overflow {
		return nil, invalidChild(k.path, index)
	}

	// childKey = point(parse256(Il)) + parentKey
	var ilJ, parentJ, childJ btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&ilNum, &ilJ)
	k.pubKey.AsJacobian(&parentJ)
	btcec.AddNonConst(&ilJ, &parentJ, &childJ)
	if childJ.Z.IsZero() || (childJ.X.IsZero() && childJ.Y.IsZero()) {
		return nil, invalidChild(k.path, index)
	}
	childJ.ToAffine()
	childKey := btcec.NewPublicKey(&childJ.X, &childJ.Y)

	header := k.childHeader(&k.identifier, index, lr[32:])
	return newExtendedPublicKey(childKey, header), nil
}

// DerivePath derives each step of path in turn, relative to k.
func (k *ExtendedPublicKey) DerivePath(path *KeyPath) (*ExtendedPublicKey, error) {
	key := k
	for _, index := range path.Indices() {
		var err error
		key, err = key.Derive(index)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}

// ExtendedPrivateKey is a private key together with the chain code and the
// metadata required to derive its children.  The holder owns the secret and
// should call Zero once the key is no longer needed.
type ExtendedPrivateKey struct {
	privKey *btcec.PrivateKey
	public  *ExtendedPublicKey
}

// Ensure ExtendedPrivateKey implements the ExtendedKey interface.
var _ ExtendedKey = (*ExtendedPrivateKey)(nil)

func newExtendedPrivateKey(secret []byte,
	header keyHeader) *ExtendedPrivateKey {

	privKey, pubKey := btcec.PrivKeyFromBytes(secret)
	return &ExtendedPrivateKey{
		privKey: privKey,
		public:  newExtendedPublicKey(pubKey, header),
	}
}

// NewMaster creates a new master node for use in creating a hierarchical
// deterministic key chain.  The seed must be between 128 and 512 bits and
// should be generated by a cryptographically secure random generator.
//
// ErrUnusableSeed is returned in the very unlikely case the seed does not
// produce a valid master key; a new seed must be used.
func NewMaster(seed []byte, net Network) (*ExtendedPrivateKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		str := fmt.Sprintf("seed length must be between %d and %d bits, "+
			"got %d", MinSeedBytes*8, MaxSeedBytes*8, len(seed)*8)
		return nil, makeError(ErrInvalidSeedLen, str)
	}

	// I = HMAC-SHA512(Key = "Bitcoin seed", Data = S)
	hmac512 := hmac.New(sha512.New, masterKey)
	_, _ = hmac512.Write(seed)
	lr := hmac512.Sum(nil)
	defer clear(lr)

	secretKey, chainCode := lr[:32], lr[32:]

	var keyNum btcec.ModNScalar
	overflow := keyNum.SetByteSlice(secretKey)
	isZero := keyNum.IsZero()
	keyNum.Zero()
	if overflow || isZero {
		return nil, makeError(ErrUnusableSeed,
			"the seed produced an invalid master key")
	}

	header := keyHeader{network: net, path: Root}
	copy(header.chainCode[:], chainCode)
	return newExtendedPrivateKey(secretKey, header), nil
}

// IsPrivate always returns true.
func (k *ExtendedPrivateKey) IsPrivate() bool {
	return true
}

// Public returns the public half of k.  The returned key does not share
// memory with k, so zeroing k leaves it intact.
func (k *ExtendedPrivateKey) Public() *ExtendedPublicKey {
	pub := *k.public
	return &pub
}

// Neuter is an alias for Public, following hdkeychain naming.
func (k *ExtendedPrivateKey) Neuter() *ExtendedPublicKey {
	return k.Public()
}

// ECPrivKey returns the secp256k1 private key.  It is shared with k.
func (k *ExtendedPrivateKey) ECPrivKey() *btcec.PrivateKey {
	return k.privKey
}

// ECPubKey returns the secp256k1 public key.
func (k *ExtendedPrivateKey) ECPubKey() *btcec.PublicKey {
	return k.public.pubKey
}

// PubKeyBytes returns a copy of the compressed public key.
func (k *ExtendedPrivateKey) PubKeyBytes() []byte {
	return k.public.PubKeyBytes()
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedPrivateKey) ChainCode() []byte {
	return k.public.ChainCode()
}

// Depth returns the number of derivations from the master key.
func (k *ExtendedPrivateKey) Depth() uint8 {
	return k.public.depth
}

// ParentFingerprint returns the fingerprint of the parent key.
func (k *ExtendedPrivateKey) ParentFingerprint() uint32 {
	return k.public.ParentFingerprint()
}

// ChildIndex returns the index this key was derived at.
func (k *ExtendedPrivateKey) ChildIndex() uint32 {
	return k.public.childIndex
}

// Network returns the network the key is serialized for.
func (k *ExtendedPrivateKey) Network() Network {
	return k.public.network
}

// Path returns the derivation path of the key when known, otherwise nil.
func (k *ExtendedPrivateKey) Path() *KeyPath {
	return k.public.path
}

// Identifier returns the Hash160 of the compressed public key.
func (k *ExtendedPrivateKey) Identifier() [IdentifierLen]byte {
	return k.public.identifier
}

// Derive returns the child at index, which may be hardened.
//
// ErrInvalidChild is returned for the rare index whose child is not a valid
// key.  Callers are expected to skip to the next index.
func (k *ExtendedPrivateKey) Derive(index uint32) (*ExtendedPrivateKey, error) {
	if k.public.depth == MaxDepth {
		return nil, makeError(ErrDeriveBeyondMaxDepth,
			"cannot derive a key with more than 255 indices in its path")
	}

	// Hardened: data = 0x00 || ser256(parentKey) || ser32(i)
	// Normal:   data = serP(point(parentKey)) || ser32(i)
	var data [pubKeyLen + 4]byte
	defer clear(data[:])
	if index >= HardenedKeyStart {
		k.privKey.Key.PutBytesUnchecked(data[1:pubKeyLen])
	} else {
		copy(data[:], k.public.serialized[:])
	}
	binary.BigEndian.PutUint32(data[pubKeyLen:], index)

	lr := childHMAC(k.public.chainCode[:], data[:])
	defer clear(lr[:])

	// childKey = parse256(Il) + parentKey (mod n)
	var keyNum btcec.ModNScalar
	defer keyNum.Zero()
	if overflow := keyNum.SetByteSlice(lr[:32]); overflow {
		return nil, invalidChild(k.public.path, index)
	}
	keyNum.Add(&k.privKey.Key)
	if keyNum.IsZero() {
		return nil, invalidChild(k.public.path, index)
	}

	var secret [32]byte
	defer clear(secret[:])
	keyNum.PutBytes(&secret)

	header := k.public.childHeader(&k.public.identifier, index, lr[32:])
	return newExtendedPrivateKey(secret[:], header), nil
}

// DerivePath derives each step of path in turn, relative to k.
func (k *ExtendedPrivateKey) DerivePath(path *KeyPath) (*ExtendedPrivateKey, error) {
	key := k
	for _, index := range path.Indices() {
		child, err := key.Derive(index)
		if key != k {
			key.Zero()
		}
		if err != nil {
			return nil, err
		}
		key = child
	}
	return key, nil
}

// Zero wipes the private scalar and chain code held by k.  The key must not
// be used afterwards.  Public keys previously obtained from k are unaffected.
func (k *ExtendedPrivateKey) Zero() {
	k.privKey.Zero()
	clear(k.public.chainCode[:])
}

// Fingerprint returns RIPEMD160(SHA256(pubKey)), the BIP-32 key identifier
// of a compressed public key.  Its first four bytes become the parent
// fingerprint of every child.
func Fingerprint(pubKey []byte) [IdentifierLen]byte {
	var id [IdentifierLen]byte
	copy(id[:], btcutil.Hash160(pubKey))
	return id
}

// childHMAC computes I = HMAC-SHA512(Key = chainCode, Data = data).
func childHMAC(chainCode, data []byte) [sha512.Size]byte {
	var lr [sha512.Size]byte
	hmac512 := hmac.New(sha512.New, chainCode)
	_, _ = hmac512.Write(data)
	hmac512.Sum(lr[:0])
	return lr
}

func invalidChild(path *KeyPath, index uint32) error {
	log.Debugf("Child index %d of %v is invalid", index, path)

	str := fmt.Sprintf("the extended key at index %d is invalid, "+
		"use the next index", index)
	return makeError(ErrInvalidChild, str)
}
