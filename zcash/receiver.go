package zcash

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// Unified address item type codes.
const (
	TypeP2PKH   byte = 0x00
	TypeP2SH    byte = 0x01
	TypeSapling byte = 0x02
	TypeOrchard byte = 0x03
)

// Receiver is the raw destination of funds within one pool.
type Receiver interface {
	// Pool returns the pool that funds sent to the receiver land in.
	Pool() Pool

	// Bytes returns a copy of the raw receiver encoding.
	Bytes() []byte
}

// UnifiedReceiver is a receiver that may be carried by a unified address.
type UnifiedReceiver interface {
	Receiver

	// TypeCode returns the unified address item type code.
	TypeCode() byte
}

// TransparentP2PKHReceiver is the Hash160 of a compressed secp256k1 public
// key.
type TransparentP2PKHReceiver [20]byte

// TransparentP2SHReceiver is the Hash160 of a redeem script.
type TransparentP2SHReceiver [20]byte

// SaplingReceiver is an 11-byte diversifier followed by the 32-byte
// diversified transmission key pk_d.
type SaplingReceiver [43]byte

// OrchardReceiver is a raw Orchard payment address: an 11-byte diversifier
// followed by the 32-byte pk_d.
type OrchardReceiver [43]byte

// SproutReceiver is the 32-byte paying key a_pk followed by the 32-byte
// transmission key pk_enc.  Sprout receivers never appear in unified
// addresses.
type SproutReceiver [64]byte

// Ensure every receiver implements the interfaces it belongs to.
var (
	_ UnifiedReceiver = TransparentP2PKHReceiver{}
	_ UnifiedReceiver = TransparentP2SHReceiver{}
	_ UnifiedReceiver = SaplingReceiver{}
	_ UnifiedReceiver = OrchardReceiver{}
	_ Receiver        = SproutReceiver{}
)

// NewP2PKHReceiver returns the receiver of a serialized public key.  The key
// must be in compressed form for the address to be spendable by Zcash
// wallets.
func NewP2PKHReceiver(serializedPubKey []byte) TransparentP2PKHReceiver {
	var r TransparentP2PKHReceiver
	copy(r[:], btcutil.Hash160(serializedPubKey))
	return r
}

// NewP2SHReceiver returns the receiver of a redeem script.
func NewP2SHReceiver(redeemScript []byte) TransparentP2SHReceiver {
	var r TransparentP2SHReceiver
	copy(r[:], btcutil.Hash160(redeemScript))
	return r
}

func (r TransparentP2PKHReceiver) Pool() Pool     { return PoolTransparent }
func (r TransparentP2PKHReceiver) TypeCode() byte { return TypeP2PKH }
func (r TransparentP2PKHReceiver) Bytes() []byte  { return r[:] }

// PkScript returns the standard pay-to-pubkey-hash output script.
func (r TransparentP2PKHReceiver) PkScript() ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(r[:]).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

func (r TransparentP2SHReceiver) Pool() Pool     { return PoolTransparent }
func (r TransparentP2SHReceiver) TypeCode() byte { return TypeP2SH }
func (r TransparentP2SHReceiver) Bytes() []byte  { return r[:] }

// PkScript returns the standard pay-to-script-hash output script.
func (r TransparentP2SHReceiver) PkScript() ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(r[:]).
		AddOp(txscript.OP_EQUAL).
		Script()
}

func (r SaplingReceiver) Pool() Pool     { return PoolSapling }
func (r SaplingReceiver) TypeCode() byte { return TypeSapling }
func (r SaplingReceiver) Bytes() []byte  { return r[:] }

// Diversifier returns the 11-byte diversifier d.
func (r SaplingReceiver) Diversifier() [11]byte {
	var d [11]byte
	copy(d[:], r[:11])
	return d
}

// Pkd returns the 32-byte diversified transmission key.
func (r SaplingReceiver) Pkd() [32]byte {
	var pkd [32]byte
	copy(pkd[:], r[11:])
	return pkd
}

func (r OrchardReceiver) Pool() Pool     { return PoolOrchard }
func (r OrchardReceiver) TypeCode() byte { return TypeOrchard }
func (r OrchardReceiver) Bytes() []byte  { return r[:] }

func (r SproutReceiver) Pool() Pool    { return PoolSprout }
func (r SproutReceiver) Bytes() []byte { return r[:] }

// Apk returns the 32-byte paying key.
func (r SproutReceiver) Apk() [32]byte {
	var apk [32]byte
	copy(apk[:], r[:32])
	return apk
}

// PkEnc returns the 32-byte transmission key.
func (r SproutReceiver) PkEnc() [32]byte {
	var pk [32]byte
	copy(pk[:], r[32:])
	return pk
}

// receiverFromItem builds the known receiver for a unified address item.  ok
// is false for a type code this package does not understand.
func receiverFromItem(typeCode uint64, data []byte) (UnifiedReceiver, bool, error) {
	var want int
	switch typeCode {
	case uint64(TypeP2PKH), uint64(TypeP2SH):
		want = 20
	case uint64(TypeSapling), uint64(TypeOrchard):
		want = 43
	default:
		return nil, false, nil
	}
	if len(data) != want {
		str := fmt.Sprintf("unified address item with type code %d is %d "+
			"bytes, want %d", typeCode, len(data), want)
		return nil, true, makeError(ErrMalformedAddressData, str)
	}

	switch byte(typeCode) {
	case TypeP2PKH:
		return TransparentP2PKHReceiver(data), true, nil
	case TypeP2SH:
		return TransparentP2SHReceiver(data), true, nil
	case TypeSapling:
		return SaplingReceiver(data), true, nil
	default:
		return OrchardReceiver(data), true, nil
	}
}
