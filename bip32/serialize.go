package bip32

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// SerializedKeyLen is the length of a serialized public or private
	// extended key:
	//   version(4) || depth(1) || parent fp(4) || child index(4) ||
	//   chain code(32) || key material(33)
	SerializedKeyLen = 4 + 1 + FingerprintLen + 4 + chainCodeLen + pubKeyLen

	checksumLen = 4
)

// serialize writes the 78-byte BIP-32 layout for the header and key material.
func (h *keyHeader) serialize(version [4]byte, keyData []byte) []byte {
	buf := make([]byte, 0, SerializedKeyLen+checksumLen)
	buf = append(buf, version[:]...)
	buf = append(buf, h.depth)
	buf = append(buf, h.parentFP[:]...)
	buf = binary.BigEndian.AppendUint32(buf, h.childIndex)
	buf = append(buf, h.chainCode[:]...)
	buf = append(buf, keyData...)
	return buf
}

// encodeChecked appends the double-SHA256 checksum and base58 encodes the
// serialized key.
func encodeChecked(serialized []byte) string {
	checkSum := chainhash.DoubleHashB(serialized)[:checksumLen]
	return base58.Encode(append(serialized, checkSum...))
}

// Serialize returns the 78-byte binary encoding of the public key.
func (k *ExtendedPublicKey) Serialize() []byte {
	version := k.network.chainParams().HDPublicKeyID
	return k.serialize(version, k.serialized[:])
}

// String returns the base58 xpub/tpub encoding of the key.
func (k *ExtendedPublicKey) String() string {
	return encodeChecked(k.Serialize())
}

// Serialize returns the 78-byte binary encoding of the private key.  The
// result holds the secret scalar; callers should clear it after use.
func (k *ExtendedPrivateKey) Serialize() []byte {
	var keyData [pubKeyLen]byte
	defer clear(keyData[:])
	k.privKey.Key.PutBytesUnchecked(keyData[1:])

	version := k.public.network.chainParams().HDPrivateKeyID
	return k.public.serialize(version, keyData[:])
}

// String returns the base58 xprv/tprv encoding of the key.
func (k *ExtendedPrivateKey) String() string {
	serialized := k.Serialize()
	defer clear(serialized)
	return encodeChecked(serialized)
}

// ParseExtendedKey decodes a base58 xprv, xpub, tprv or tpub string.  The
// result is an *ExtendedPrivateKey or an *ExtendedPublicKey.
//
// A key below the root carries no Path since its ancestry is not encoded.
func ParseExtendedKey(text string) (ExtendedKey, error) {
	decoded := base58.Decode(text)
	defer clear(decoded)

	if len(decoded) != SerializedKeyLen+checksumLen {
		str := fmt.Sprintf("serialized extended key is %d bytes, want %d",
			len(decoded), SerializedKeyLen+checksumLen)
		return nil, makeError(ErrInvalidKeyLen, str)
	}

	payload := decoded[:SerializedKeyLen]
	checkSum := decoded[SerializedKeyLen:]
	expectedCheckSum := chainhash.DoubleHashB(payload)[:checksumLen]
	if !bytes.Equal(checkSum, expectedCheckSum) {
		return nil, makeError(ErrBadChecksum,
			"bad extended key checksum")
	}

	var version [4]byte
	copy(version[:], payload[:4])
	net, private, ok := lookupVersion(version)
	if !ok {
		str := fmt.Sprintf("unknown extended key version %x", version)
		return nil, makeError(ErrUnknownVersion, str)
	}

	header := keyHeader{
		depth:      payload[4],
		childIndex: binary.BigEndian.Uint32(payload[9:13]),
		network:    net,
	}
	copy(header.parentFP[:], payload[5:9])
	copy(header.chainCode[:], payload[13:45])
	keyData := payload[45:]

	if header.depth == 0 {
		if header.ParentFingerprint() != 0 || header.childIndex != 0 {
			return nil, makeError(ErrInvalidKeyData,
				"master key with non-zero parent fingerprint "+
					"or child index")
		}
		header.path = Root
	}

	if !private {
		pubKey, err := btcec.ParsePubKey(keyData)
		if err != nil {
			str := fmt.Sprintf("invalid public key: %v", err)
			return nil, makeError(ErrInvalidKeyData, str)
		}
		return newExtendedPublicKey(pubKey, header), nil
	}

	if keyData[0] != 0x00 {
		return nil, makeError(ErrInvalidKeyData,
			"private key material is not prefixed with 0x00")
	}

	var keyNum btcec.ModNScalar
	overflow := keyNum.SetByteSlice(keyData[1:])
	isZero := keyNum.IsZero()
	keyNum.Zero()
	if overflow || isZero {
		return nil, makeError(ErrInvalidKeyData,
			"private key is not a valid scalar")
	}

	return newExtendedPrivateKey(keyData[1:], header), nil
}
