package bip32

import (
	gobip32 "github.com/blockchainspectre/go-bip32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// ToHDKeychain converts the key to a btcd hdkeychain key.
func (k *ExtendedPublicKey) ToHDKeychain() *hdkeychain.ExtendedKey {
	version := k.network.chainParams().HDPublicKeyID
	return hdkeychain.NewExtendedKey(
		version[:], k.PubKeyBytes(), k.ChainCode(), k.parentFP[:],
		k.depth, k.childIndex, false,
	)
}

// ToHDKeychain converts the key to a btcd hdkeychain key.  The returned key
// holds its own copy of the secret.
func (k *ExtendedPrivateKey) ToHDKeychain() *hdkeychain.ExtendedKey {
	version := k.public.network.chainParams().HDPrivateKeyID
	secret := k.privKey.Key.Bytes()
	return hdkeychain.NewExtendedKey(
		version[:], secret[:], k.ChainCode(), k.public.parentFP[:],
		k.public.depth, k.public.childIndex, true,
	)
}

// FromHDKeychain converts a btcd hdkeychain key.  Only the Bitcoin main and
// test net version bytes are accepted.
func FromHDKeychain(key *hdkeychain.ExtendedKey) (ExtendedKey, error) {
	return ParseExtendedKey(key.String())
}

// ToBIP32Key converts the key to a go-bip32 key.
func ToBIP32Key(k ExtendedKey) (*gobip32.Key, error) {
	return gobip32.B58Deserialize(k.String())
}

// FromBIP32Key converts a go-bip32 key.
func FromBIP32Key(key *gobip32.Key) (ExtendedKey, error) {
	return ParseExtendedKey(key.B58Serialize())
}
