package bip32

// References:
//   [BIP32]: BIP0032 - Hierarchical Deterministic Wallets
//   https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki

import (
	"bytes"
	"encoding/hex"
	"testing"

	gobip32 "github.com/blockchainspectre/go-bip32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

const (
	testVec1MasterHex = "000102030405060708090a0b0c0d0e0f"

	// testSeedHex is a 32-byte seed used for Zcash account paths.
	testSeedHex = "000102030405060708090a0b0c0d0e0f" +
		"101112131415161718191a1b1c1d1e1f"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestBIP0032Vectors tests the vectors provided by [BIP32] to ensure the
// derivation works as intended.
func TestBIP0032Vectors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantPub  string
		wantPriv string
	}{
		{
			name:     "test vector 1 chain m",
			path:     "m",
			wantPub:  "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
			wantPriv: "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
		},
		{
			name:     "test vector 1 chain m/0H",
			path:     "m/0'",
			wantPub:  "xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw",
			wantPriv: "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7",
		},
		{
			name:     "test vector 1 chain m/0H/1",
			path:     "m/0'/1",
			wantPub:  "xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
			wantPriv: "xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSxqu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs",
		},
		{
			name:     "test vector 1 chain m/0H/1/2H",
			path:     "m/0'/1/2'",
			wantPub:  "xpub6D4BDPcP2GT577Vvch3R8wDkScZWzQzMMUm3PWbmWvVJrZwQY4VUNgqFJPMM3No2dFDFGTsxxpG5uJh7n7epu4trkrX7x7DogT5Uv6fcLW5",
			wantPriv: "xprv9z4pot5VBttmtdRTWfWQmoH1taj2axGVzFqSb8C9xaxKymcFzXBDptWmT7FwuEzG3ryjH4ktypQSAewRiNMjANTtpgP4mLTj34bhnZX7UiM",
		},
		{
			name:     "test vector 1 chain m/0H/1/2H/2",
			path:     "m/0'/1/2'/2",
			wantPub:  "xpub6FHa3pjLCk84BayeJxFW2SP4XRrFd1JYnxeLeU8EqN3vDfZmbqBqaGJAyiLjTAwm6ZLRQUMv1ZACTj37sR62cfN7fe5JnJ7dh8zL4fiyLHV",
			wantPriv: "xprvA2JDeKCSNNZky6uBCviVfJSKyQ1mDYahRjijr5idH2WwLsEd4Hsb2Tyh8RfQMuPh7f7RtyzTtdrbdqqsunu5Mm3wDvUAKRHSC34sJ7in334",
		},
		{
			name:     "test vector 1 chain m/0H/1/2H/2/1000000000",
			path:     "m/0'/1/2'/2/1000000000",
			wantPub:  "xpub6H1LXWLaKsWFhvm6RVpEL9P4KfRZSW7abD2ttkWP3SSQvnyA8FSVqNTEcYFgJS2UaFcxupHiYkro49S8yGasTvXEYBVPamhGW6cFJodrTHy",
			wantPriv: "xprvA41z7zogVVwxVSgdKUHDy1SKmdb533PjDz7J6N6mV6uS3ze1ai8FHa8kmHScGpWmj4WggLyQjgPie1rFSruoUihUZREPSL39UNdE3BBDu76",
		},
	}

	seed := mustDecodeHex(t, testVec1MasterHex)
	master, err := NewMaster(seed, MainNet)
	require.NoError(t, err)

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path, err := ParsePath(test.path)
			require.NoError(t, err)

			key, err := master.DerivePath(path)
			require.NoError(t, err)
			require.Equal(t, test.wantPriv, key.String())
			require.Equal(t, test.wantPub, key.Public().String())
			require.Equal(t, test.path, key.Path().String())
			require.Equal(t, uint8(path.Len()), key.Depth())
		})
	}
}

// TestZcashAccountPath checks m/44'/133'/0' against two independent
// implementations.
func TestZcashAccountPath(t *testing.T) {
	seed := mustDecodeHex(t, testSeedHex)
	path, err := ParsePath("m/44'/133'/0'")
	require.NoError(t, err)

	master, err := NewMaster(seed, MainNet)
	require.NoError(t, err)
	account, err := master.DerivePath(path)
	require.NoError(t, err)

	oracle, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	for _, index := range path.Indices() {
		oracle, err = oracle.Derive(index)
		require.NoError(t, err)
	}

	require.Equal(t, oracle.String(), account.String())
	require.Equal(t, oracle.ChainCode(), account.ChainCode())
	require.Equal(t, oracle.ParentFingerprint(), account.ParentFingerprint())
	require.Equal(t, oracle.ChildIndex(), account.ChildIndex())

	bipKey, err := gobip32.NewMasterKey(seed)
	require.NoError(t, err)
	for _, index := range path.Indices() {
		bipKey, err = bipKey.NewChildKey(index)
		require.NoError(t, err)
	}
	require.Equal(t, bipKey.B58Serialize(), account.String())
	require.Equal(t, bipKey.ChainCode, account.ChainCode())

	id := account.Identifier()
	oraclePub, err := oracle.ECPubKey()
	require.NoError(t, err)
	require.Equal(t, Fingerprint(oraclePub.SerializeCompressed()), id)
}

func TestMasterFingerprint(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testVec1MasterHex), MainNet)
	require.NoError(t, err)

	id := master.Identifier()
	require.Equal(t, "3442193e1bb70916e914552172cd4e2dbc9df811",
		hex.EncodeToString(id[:]))
	require.Zero(t, master.ParentFingerprint())
	require.Zero(t, master.ChildIndex())
	require.Zero(t, master.Depth())
	require.Same(t, Root, master.Path())

	child, err := master.Derive(HardenedKeyStart)
	require.NoError(t, err)
	require.Equal(t, uint32(0x3442193e), child.ParentFingerprint())
}

func TestNewMasterSeedLength(t *testing.T) {
	for _, n := range []int{0, MinSeedBytes - 1, MaxSeedBytes + 1} {
		_, err := NewMaster(make([]byte, n), MainNet)
		require.ErrorIs(t, err, ErrInvalidSeedLen)
	}

	for _, n := range []int{MinSeedBytes, RecommendedSeedLen, MaxSeedBytes} {
		_, err := NewMaster(bytes.Repeat([]byte{0x01}, n), TestNet)
		require.NoError(t, err)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	seed := mustDecodeHex(t, testSeedHex)

	derive := func() *ExtendedPrivateKey {
		master, err := NewMaster(seed, MainNet)
		require.NoError(t, err)
		key, err := master.DerivePath(NewPath(44|HardenedBit, 133|HardenedBit, 5))
		require.NoError(t, err)
		return key
	}

	a, b := derive(), derive()
	require.Equal(t, a.Serialize(), b.Serialize())
	require.Equal(t, a.Public().Serialize(), b.Public().Serialize())
}

func TestPublicDerivationMatchesPrivate(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testSeedHex), MainNet)
	require.NoError(t, err)
	account, err := master.DerivePath(NewPath(44|HardenedBit, 133|HardenedBit,
		HardenedBit))
	require.NoError(t, err)

	accountPub := account.Public()
	for _, index := range []uint32{0, 1, 2, 1000, HardenedKeyStart - 1} {
		privChild, err := account.Derive(index)
		require.NoError(t, err)
		pubChild, err := accountPub.Derive(index)
		require.NoError(t, err)

		require.Equal(t, privChild.Public().String(), pubChild.String())
		require.Equal(t, privChild.Path().String(), pubChild.Path().String())
	}

	pubPath, err := accountPub.DerivePath(NewPath(0, 7))
	require.NoError(t, err)
	require.Equal(t, "m/44'/133'/0'/0/7", pubPath.Path().String())
}

func TestDeriveHardenedFromPublic(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testSeedHex), MainNet)
	require.NoError(t, err)

	pub := master.Public()
	for _, index := range []uint32{HardenedKeyStart, HardenedKeyStart + 44,
		^uint32(0)} {

		child, err := pub.Derive(index)
		require.ErrorIs(t, err, ErrDeriveHardFromPublic)
		require.Nil(t, child)
	}

	_, err = pub.DerivePath(NewPath(1, 2|HardenedBit))
	require.ErrorIs(t, err, ErrDeriveHardFromPublic)
}

func TestDeriveBeyondMaxDepth(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testSeedHex), MainNet)
	require.NoError(t, err)

	// Forge a key at the maximum depth by rewriting the serialized header.
	serialized := master.Serialize()
	serialized[4] = MaxDepth
	serialized[5] = 0x01
	parsed, err := ParseExtendedKey(encodeChecked(serialized))
	require.NoError(t, err)
	require.Nil(t, parsed.Path())

	deep := parsed.(*ExtendedPrivateKey)
	require.Equal(t, uint8(MaxDepth), deep.Depth())

	_, err = deep.Derive(0)
	require.ErrorIs(t, err, ErrDeriveBeyondMaxDepth)
	_, err = deep.Public().Derive(0)
	require.ErrorIs(t, err, ErrDeriveBeyondMaxDepth)

	below, err := master.Derive(1)
	require.NoError(t, err)
	require.Equal(t, uint8(1), below.Depth())
}

func TestExtendedKeyRoundTrip(t *testing.T) {
	for _, net := range []Network{MainNet, TestNet} {
		master, err := NewMaster(mustDecodeHex(t, testSeedHex), net)
		require.NoError(t, err)
		child, err := master.DerivePath(NewPath(44|HardenedBit, 1))
		require.NoError(t, err)

		for _, key := range []ExtendedKey{master, master.Public(), child,
			child.Public()} {

			parsed, err := ParseExtendedKey(key.String())
			require.NoError(t, err)
			require.Equal(t, key.IsPrivate(), parsed.IsPrivate())
			require.Equal(t, key.String(), parsed.String())
			require.Equal(t, net, parsed.Network())
			require.Equal(t, key.Identifier(), parsed.Identifier())
		}
	}

	master, err := NewMaster(mustDecodeHex(t, testSeedHex), TestNet)
	require.NoError(t, err)
	require.Contains(t, master.String(), "tprv")
	require.Contains(t, master.Public().String(), "tpub")
}

func TestParseExtendedKeyErrors(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testVec1MasterHex), MainNet)
	require.NoError(t, err)
	good := master.String()

	// Swap the last character for a different valid base58 character.
	last := good[len(good)-1]
	replacement := byte('2')
	if last == replacement {
		replacement = '3'
	}
	_, err = ParseExtendedKey(good[:len(good)-1] + string(replacement))
	require.ErrorIs(t, err, ErrBadChecksum)

	_, err = ParseExtendedKey(good[:len(good)-4])
	require.ErrorIs(t, err, ErrInvalidKeyLen)

	serialized := master.Serialize()
	copy(serialized[:4], []byte{0x01, 0x02, 0x03, 0x04})
	_, err = ParseExtendedKey(encodeChecked(serialized))
	require.ErrorIs(t, err, ErrUnknownVersion)

	serialized = master.Serialize()
	serialized[9] = 0x01 // child index on a depth 0 key
	_, err = ParseExtendedKey(encodeChecked(serialized))
	require.ErrorIs(t, err, ErrInvalidKeyData)

	serialized = master.Public().Serialize()
	serialized[45] = 0x05 // not a compressed point prefix
	_, err = ParseExtendedKey(encodeChecked(serialized))
	require.ErrorIs(t, err, ErrInvalidKeyData)

	serialized = master.Serialize()
	for i := 46; i < SerializedKeyLen; i++ {
		serialized[i] = 0xff // above the group order
	}
	_, err = ParseExtendedKey(encodeChecked(serialized))
	require.ErrorIs(t, err, ErrInvalidKeyData)
}

func TestExtendedKeyIndependence(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testSeedHex), MainNet)
	require.NoError(t, err)
	want := master.String()

	chainCode := master.ChainCode()
	chainCode[0] ^= 0xff
	pubKey := master.PubKeyBytes()
	pubKey[1] ^= 0xff
	require.Equal(t, want, master.String())

	child, err := master.Derive(3)
	require.NoError(t, err)
	pub := child.Public()
	pubString := pub.String()

	child.Zero()
	require.Equal(t, pubString, pub.String())
	require.Equal(t, want, master.String())
}

func TestInterop(t *testing.T) {
	master, err := NewMaster(mustDecodeHex(t, testSeedHex), MainNet)
	require.NoError(t, err)
	child, err := master.DerivePath(NewPath(44|HardenedBit, 133|HardenedBit, 2))
	require.NoError(t, err)

	for _, key := range []ExtendedKey{child, child.Public()} {
		var hdKey *hdkeychain.ExtendedKey
		switch k := key.(type) {
		case *ExtendedPrivateKey:
			hdKey = k.ToHDKeychain()
		case *ExtendedPublicKey:
			hdKey = k.ToHDKeychain()
		}
		require.Equal(t, key.String(), hdKey.String())

		back, err := FromHDKeychain(hdKey)
		require.NoError(t, err)
		require.Equal(t, key.String(), back.String())

		bipKey, err := ToBIP32Key(key)
		require.NoError(t, err)
		require.Equal(t, key.IsPrivate(), bipKey.IsPrivate)
		require.Equal(t, key.ChainCode(), bipKey.ChainCode)

		back, err = FromBIP32Key(bipKey)
		require.NoError(t, err)
		require.Equal(t, key.String(), back.String())
	}
}
