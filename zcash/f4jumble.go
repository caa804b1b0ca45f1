package zcash

// References:
//   [ZIP316]: Unified Addresses and Unified Viewing Keys
//   https://zips.z.cash/zip-0316#jumbling

import (
	"encoding/binary"
	"fmt"

	blake2b "github.com/minio/blake2b-simd"
)

const (
	// hashLen is ℓ_H, the output length of BLAKE2b-512 in bytes.
	hashLen = 64

	// MinF4JumbleLen is the shortest message F4Jumble accepts.
	MinF4JumbleLen = 48

	// MaxF4JumbleLen is the longest message F4Jumble accepts.
	MaxF4JumbleLen = hashLen*(1<<16) + hashLen
)

var (
	personalizationH = []byte("UA_F4Jumble_H")
	personalizationG = []byte("UA_F4Jumble_G")
)

// F4Jumble applies the four round Feistel construction of [ZIP316] to msg and
// returns the result in a new slice.  Every output byte depends on every
// input byte, which makes it infeasible to craft a unified address that
// differs from another in only a few characters.
func F4Jumble(msg []byte) ([]byte, error) {
	if err := checkJumbleLen(len(msg)); err != nil {
		return nil, err
	}

	out := make([]byte, len(msg))
	copy(out, msg)

	leftLen := jumbleLeftLen(len(msg))
	a, b := out[:leftLen], out[leftLen:]

	xorInto(b, gRound(0, a, len(b)))
	xorInto(a, hRound(0, b, leftLen))
	xorInto(b, gRound(1, a, len(b)))
	xorInto(a, hRound(1, b, leftLen))
	return out, nil
}

// F4JumbleInv reverses F4Jumble.
func F4JumbleInv(msg []byte) ([]byte, error) {
	if err := checkJumbleLen(len(msg)); err != nil {
		return nil, err
	}

	out := make([]byte, len(msg))
	copy(out, msg)

	leftLen := jumbleLeftLen(len(msg))
	c, d := out[:leftLen], out[leftLen:]

	xorInto(c, hRound(1, d, leftLen))
	xorInto(d, gRound(1, c, len(d)))
	xorInto(c, hRound(0, d, leftLen))
	xorInto(d, gRound(0, c, len(d)))
	return out, nil
}

func checkJumbleLen(n int) error {
	if n < MinF4JumbleLen || n > MaxF4JumbleLen {
		str := fmt.Sprintf("F4Jumble message length %d is outside "+
			"[%d, %d]", n, MinF4JumbleLen, MaxF4JumbleLen)
		return makeError(ErrMalformedAddressData, str)
	}
	return nil
}

// jumbleLeftLen returns ℓ_L = min(ℓ_H, floor(ℓ_M/2)).
func jumbleLeftLen(msgLen int) int {
	return min(hashLen, msgLen/2)
}

// hRound is H_i: BLAKE2b with an ℓ_L byte digest over u, personalized with
// "UA_F4Jumble_H" || i || 0 || 0.
func hRound(i byte, u []byte, leftLen int) []byte {
	person := make([]byte, 0, 16)
	person = append(person, personalizationH...)
	person = append(person, i, 0, 0)

	return personalHash(person, leftLen, u)
}

// gRound is G_i: the concatenation of BLAKE2b-512 digests of u personalized
// with "UA_F4Jumble_G" || i || LE16(j) for j = 0, 1, ..., truncated to
// rightLen bytes.
func gRound(i byte, u []byte, rightLen int) []byte {
	out := make([]byte, 0, rightLen+hashLen)
	person := make([]byte, 16)
	copy(person, personalizationG)
	person[13] = i

	for j := 0; len(out) < rightLen; j++ {
		binary.LittleEndian.PutUint16(person[14:], uint16(j))
		out = append(out, personalHash(person, hashLen, u)...)
	}
	return out[:rightLen]
}

func personalHash(person []byte, size int, data []byte) []byte {
	h, err := blake2b.New(&blake2b.Config{
		Size:   uint8(size),
		Person: person,
	})
	if err != nil {
		panic(fmt.Sprintf("zcash: BLAKE2b config: %v", err))
	}
	_, _ = h.Write(data)
	return h.Sum(nil)
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
