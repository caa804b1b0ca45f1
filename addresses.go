package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/zcashkit/zkeys/zcash"
)

// TransparentAddresses are the transparent addresses a single public key can
// receive on.
type TransparentAddresses struct {
	P2PKH        string // t1 / tm
	P2SHMultisig string // t3 / t2, 1-of-1 bare multisig redeem script
}

// GenerateTransparentAddresses derives the transparent addresses of a
// compressed public key.
func GenerateTransparentAddresses(compressedPubKey []byte,
	net zcash.Network) (*TransparentAddresses, error) {

	pubKey, err := btcec.ParsePubKey(compressedPubKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	serialized := pubKey.SerializeCompressed()

	addresses := &TransparentAddresses{}

	p2pkh := zcash.NewTransparentP2PKHAddress(
		zcash.NewP2PKHReceiver(serialized), net,
	)
	addresses.P2PKH = p2pkh.String()

	redeemScript, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(serialized).
		AddOp(txscript.OP_1).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
	if err != nil {
		return nil, fmt.Errorf("failed to create redeem script: %w", err)
	}
	p2sh := zcash.NewTransparentP2SHAddress(
		zcash.NewP2SHReceiver(redeemScript), net,
	)
	addresses.P2SHMultisig = p2sh.String()

	return addresses, nil
}

// AddressInfo describes a decoded address.
type AddressInfo struct {
	Address   string
	Kind      string
	Network   zcash.Network
	Pools     []zcash.Pool
	Receivers []ReceiverInfo
	Unknown   []uint64
}

// ReceiverInfo is one receiver of an address in printable form.
type ReceiverInfo struct {
	Pool     zcash.Pool
	TypeCode string
	Hex      string
	PkScript string
}

// DescribeAddress breaks an address down into its receivers.
func DescribeAddress(addr zcash.Address) *AddressInfo {
	info := &AddressInfo{
		Address: addr.String(),
		Kind:    addressKindName(addr),
		Network: addr.Network(),
	}

	for _, pool := range []zcash.Pool{zcash.PoolTransparent,
		zcash.PoolSprout, zcash.PoolSapling, zcash.PoolOrchard} {

		if addr.SupportsPool(pool) {
			info.Pools = append(info.Pools, pool)
		}
	}

	for _, r := range addr.Receivers() {
		ri := ReceiverInfo{
			Pool:     r.Pool(),
			TypeCode: "-",
			Hex:      hex.EncodeToString(r.Bytes()),
		}
		if ur, ok := r.(zcash.UnifiedReceiver); ok {
			ri.TypeCode = fmt.Sprintf("0x%02x", ur.TypeCode())
		}
		if s, ok := r.(interface{ PkScript() ([]byte, error) }); ok {
			if script, err := s.PkScript(); err == nil {
				ri.PkScript = hex.EncodeToString(script)
			}
		}
		info.Receivers = append(info.Receivers, ri)
	}

	if ua, ok := addr.(*zcash.UnifiedAddress); ok {
		info.Unknown = ua.UnknownTypeCodes()
	}
	return info
}

func addressKindName(addr zcash.Address) string {
	switch addr.(type) {
	case *zcash.TransparentP2PKHAddress:
		return "transparent p2pkh"
	case *zcash.TransparentP2SHAddress:
		return "transparent p2sh"
	case *zcash.SproutAddress:
		return "sprout"
	case *zcash.SaplingAddress:
		return "sapling"
	case *zcash.UnifiedAddress:
		return "unified"
	default:
		return "unknown"
	}
}

// DisplayAddressInfo writes an address breakdown to w.
func DisplayAddressInfo(w io.Writer, info *AddressInfo) {
	fmt.Fprintln(w, "=== Zcash Address ===")
	fmt.Fprintf(w, "Address: %s\n", info.Address)
	fmt.Fprintf(w, "Kind: %s\n", info.Kind)
	fmt.Fprintf(w, "Network: %s\n", info.Network)
	fmt.Fprintf(w, "Pools: %v\n", info.Pools)
	for _, r := range info.Receivers {
		fmt.Fprintf(w, "Receiver %s (%s): %s\n", r.TypeCode, r.Pool, r.Hex)
		if r.PkScript != "" {
			fmt.Fprintf(w, "  PkScript: %s\n", r.PkScript)
		}
	}
	if len(info.Unknown) > 0 {
		fmt.Fprintf(w, "Unknown type codes: %v\n", info.Unknown)
	}
	fmt.Fprintln(w)
}
