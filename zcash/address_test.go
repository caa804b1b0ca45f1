package zcash

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// fill returns n bytes counting up from start.
func fill(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func p2pkhReceiver(start byte) TransparentP2PKHReceiver {
	return TransparentP2PKHReceiver(fill(start, 20))
}

func p2shReceiver(start byte) TransparentP2SHReceiver {
	return TransparentP2SHReceiver(fill(start, 20))
}

func saplingReceiver(start byte) SaplingReceiver {
	return SaplingReceiver(fill(start, 43))
}

func orchardReceiver(start byte) OrchardReceiver {
	return OrchardReceiver(fill(start, 43))
}

func sproutReceiver(start byte) SproutReceiver {
	return SproutReceiver(fill(start, 64))
}

// replaceChar swaps the character at i for a different one from alphabet.
func replaceChar(s string, i int, alphabet string) string {
	for _, c := range alphabet {
		if byte(c) != s[i] {
			return s[:i] + string(c) + s[i+1:]
		}
	}
	panic("alphabet too small")
}

func TestTransparentRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		addr   Address
		prefix string
		net    Network
	}{
		{
			name:   "p2pkh mainnet",
			addr:   NewTransparentP2PKHAddress(p2pkhReceiver(1), MainNet),
			prefix: "t1",
			net:    MainNet,
		},
		{
			name:   "p2pkh testnet",
			addr:   NewTransparentP2PKHAddress(p2pkhReceiver(1), TestNet),
			prefix: "tm",
			net:    TestNet,
		},
		{
			name:   "p2sh mainnet",
			addr:   NewTransparentP2SHAddress(p2shReceiver(7), MainNet),
			prefix: "t3",
			net:    MainNet,
		},
		{
			name:   "p2sh testnet",
			addr:   NewTransparentP2SHAddress(p2shReceiver(7), TestNet),
			prefix: "t2",
			net:    TestNet,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text := test.addr.String()
			require.True(t, strings.HasPrefix(text, test.prefix), text)

			parsed, err := ParseAddress(text)
			require.NoError(t, err)
			require.IsType(t, test.addr, parsed)
			require.Equal(t, text, parsed.String())
			require.Equal(t, test.net, parsed.Network())
			require.True(t, parsed.Equal(test.addr))
			require.True(t, parsed.SupportsPool(PoolTransparent))
			require.False(t, parsed.SupportsPool(PoolSapling))
			require.Equal(t, test.addr.Receivers(), parsed.Receivers())

			// The wire form is prefix || payload || checksum.
			decoded := base58.Decode(text)
			require.Len(t, decoded, 26)
			require.Equal(t, chainhash.DoubleHashB(decoded[:22])[:4],
				decoded[22:])
		})
	}
}

func TestTransparentChecksumCorruption(t *testing.T) {
	text := NewTransparentP2PKHAddress(p2pkhReceiver(1), MainNet).String()
	corrupted := replaceChar(text, 10, "abcdefgh")

	_, err := ParseAddress(corrupted)
	require.ErrorIs(t, err, ErrBadAddressChecksum)

	addr, kind, ok := TryParseAddress(corrupted)
	require.False(t, ok)
	require.Nil(t, addr)
	require.Equal(t, ErrBadAddressChecksum, kind)
}

func TestBase58CheckTruncated(t *testing.T) {
	texts := []string{
		NewTransparentP2PKHAddress(p2pkhReceiver(1), MainNet).String(),
		NewTransparentP2SHAddress(p2shReceiver(1), TestNet).String(),
		NewSproutAddress(sproutReceiver(3), MainNet).String(),
		NewSproutAddress(sproutReceiver(3), TestNet).String(),
	}

	for _, text := range texts {
		for _, bad := range []string{
			text[:len(text)-2],
			text[:len(text)-3],
			text + "z",
			text[:5] + "0" + text[6:],
		} {
			_, err := ParseAddress(bad)
			require.ErrorIs(t, err, ErrMalformedAddress, bad)

			_, kind, ok := TryParseAddress(bad)
			require.False(t, ok)
			require.Equal(t, ErrMalformedAddress, kind, bad)
		}
	}
}

func TestBase58CheckPrefixes(t *testing.T) {
	for _, params := range allParams {
		ids := map[string][2]byte{
			params.PubKeyHashPrefix: params.PubKeyHashAddrID,
			params.ScriptHashPrefix: params.ScriptHashAddrID,
		}
		for lead, id := range ids {
			for _, b := range []byte{0x00, 0xff} {
				text := encodeBase58Check(id, bytes.Repeat([]byte{b}, 20))
				require.True(t, strings.HasPrefix(text, lead), text)
			}
		}
		for _, b := range []byte{0x00, 0xff} {
			text := encodeBase58Check(params.SproutAddrID,
				bytes.Repeat([]byte{b}, 64))
			require.True(t, strings.HasPrefix(text, params.SproutPrefix),
				text)
		}
	}
}

func TestSproutRoundTrip(t *testing.T) {
	for net, prefix := range map[Network]string{MainNet: "zc", TestNet: "zt"} {
		addr := NewSproutAddress(sproutReceiver(3), net)
		require.True(t, strings.HasPrefix(addr.String(), prefix))

		parsed, err := ParseAddress(addr.String())
		require.NoError(t, err)
		require.IsType(t, &SproutAddress{}, parsed)
		require.Equal(t, net, parsed.Network())
		require.Equal(t, sproutReceiver(3), parsed.(*SproutAddress).Receiver())
		require.True(t, parsed.SupportsPool(PoolSprout))

		receiver, ok := GetReceiver[SproutReceiver](parsed)
		require.True(t, ok)
		apk, pkEnc := receiver.Apk(), receiver.PkEnc()
		require.Equal(t, fill(3, 32), apk[:])
		require.Equal(t, fill(35, 32), pkEnc[:])
	}
}

func TestSaplingRoundTrip(t *testing.T) {
	for net, hrp := range map[Network]string{MainNet: "zs", TestNet: "ztestsapling"} {
		addr := NewSaplingAddress(saplingReceiver(9), net)
		text := addr.String()
		require.True(t, strings.HasPrefix(text, hrp+"1"))

		parsed, err := ParseAddress(text)
		require.NoError(t, err)
		require.IsType(t, &SaplingAddress{}, parsed)
		require.Equal(t, text, parsed.String())
		require.Equal(t, net, parsed.Network())

		receiver, ok := GetReceiver[SaplingReceiver](parsed)
		require.True(t, ok)
		require.Equal(t, saplingReceiver(9), receiver)
		d := receiver.Diversifier()
		require.Equal(t, fill(9, 11), d[:])

		_, ok = GetReceiver[OrchardReceiver](parsed)
		require.False(t, ok)

		// All upper case is valid bech32 and decodes to the
		// canonical lower case form.
		upper, err := ParseAddress(strings.ToUpper(text))
		require.NoError(t, err)
		require.Equal(t, text, upper.String())
	}
}

func TestSaplingDecodeErrors(t *testing.T) {
	text := NewSaplingAddress(saplingReceiver(9), MainNet).String()

	_, err := ParseAddress(replaceChar(text, len(text)-1, "qpzry9x8"))
	require.ErrorIs(t, err, ErrBadAddressChecksum)

	_, err = ParseAddress(encodeBech32("zs", fill(9, 43), bech32.VersionM))
	require.ErrorIs(t, err, ErrBadAddressChecksum)

	_, err = ParseAddress(encodeBech32("zs", fill(9, 42), bech32.Version0))
	require.ErrorIs(t, err, ErrMalformedAddressData)

	mixed := text[:10] + strings.ToUpper(text[10:])
	_, err = ParseAddress(mixed)
	require.ErrorIs(t, err, ErrMalformedAddress)
}

func TestPkScript(t *testing.T) {
	script, err := p2pkhReceiver(1).PkScript()
	require.NoError(t, err)
	require.Len(t, script, 25)
	require.Equal(t, []byte{0x76, 0xa9, 0x14}, script[:3])
	require.Equal(t, fill(1, 20), script[3:23])
	require.Equal(t, []byte{0x88, 0xac}, script[23:])

	script, err = p2shReceiver(1).PkScript()
	require.NoError(t, err)
	require.Len(t, script, 23)
	require.Equal(t, []byte{0xa9, 0x14}, script[:2])
	require.Equal(t, byte(0x87), script[22])
}

func TestNewP2PKHReceiver(t *testing.T) {
	pubKey := append([]byte{0x02}, fill(1, 32)...)
	r := NewP2PKHReceiver(pubKey)
	require.NotEqual(t, TransparentP2PKHReceiver{}, r)
	require.Equal(t, r, NewP2PKHReceiver(pubKey))
	require.NotEqual(t, r.Bytes(), NewP2SHReceiver(pubKey[1:]).Bytes())
}

func TestDispatcher(t *testing.T) {
	for _, text := range []string{"", "hello", "t4abc",
		"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"} {

		_, err := ParseAddress(text)
		require.ErrorIs(t, err, ErrUnrecognizedAddress, text)

		var addrErr Error
		require.True(t, errors.As(err, &addrErr))

		_, kind, ok := TryParseAddress(text)
		require.False(t, ok)
		require.Equal(t, ErrUnrecognizedAddress, kind)
	}

	// Decoders pass on foreign text as the bare kind.
	for _, kind := range addressKinds {
		_, err := kind.decode("hello")
		require.Equal(t, error(ErrUnrecognizedAddress), err, kind.name)
	}
	_, err := parseAddress("hello")
	require.Equal(t, error(ErrUnrecognizedAddress), err)

	// A recognized prefix stops dispatch even though the rest is bad.
	for _, text := range []string{"zs1", "u1", "utest1qqqq", "t1", "zc"} {
		_, kind, ok := TryParseAddress(text)
		require.False(t, ok)
		require.Equal(t, ErrMalformedAddress, kind, text)
	}

	sapling := NewSaplingAddress(saplingReceiver(1), TestNet)
	addr, kind, ok := TryParseAddress(sapling.String())
	require.True(t, ok)
	require.Empty(t, kind)
	require.True(t, addr.Equal(sapling))
	require.False(t, addr.Equal(nil))

	_, err = DecodeAddress(sapling.String(), MainNet)
	require.ErrorIs(t, err, ErrWrongNetwork)
	_, err = DecodeAddress(sapling.String(), TestNet)
	require.NoError(t, err)
}

func TestPoolString(t *testing.T) {
	require.Equal(t, "transparent", PoolTransparent.String())
	require.Equal(t, "orchard", PoolOrchard.String())
	require.False(t, PoolTransparent.IsShielded())
	require.True(t, PoolSapling.IsShielded())
	require.Equal(t, "Pool(9)", Pool(9).String())
}
