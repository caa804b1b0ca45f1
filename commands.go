package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"
	"github.com/zcashkit/zkeys/bip32"
	"github.com/zcashkit/zkeys/wallet"
	"github.com/zcashkit/zkeys/zcash"
)

type mnemonicCommand struct {
	Bits int `long:"bits" default:"256" description:"Entropy size in bits, a multiple of 32 from 128 to 256"`

	cfg *config
	out io.Writer
}

func newMnemonicCommand(cfg *config, out io.Writer) *mnemonicCommand {
	return &mnemonicCommand{cfg: cfg, out: out}
}

func (x *mnemonicCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"mnemonic",
		"Generate a new BIP-39 mnemonic",
		"Generate a new random BIP-39 mnemonic sentence",
		x,
	)
	return err
}

func (x *mnemonicCommand) Execute(_ []string) error {
	if _, err := x.cfg.load(); err != nil {
		return err
	}

	mnemonic, err := wallet.GenerateMnemonic(x.Bits)
	if err != nil {
		return err
	}
	fmt.Fprintln(x.out, mnemonic)
	return nil
}

type deriveCommand struct {
	Mnemonic   string `long:"mnemonic" description:"BIP-39 mnemonic to derive from"`
	Passphrase string `long:"passphrase" description:"Optional BIP-39 passphrase"`
	Seed       string `long:"seed" description:"Hex encoded seed to derive from instead of a mnemonic"`
	Path       string `long:"path" description:"Derivation path, defaults to the BIP-44 account path"`
	Account    uint32 `long:"account" description:"BIP-44 account used when no path is given"`
	Count      uint32 `long:"count" default:"5" description:"Number of receive addresses to list for an account key"`

	cfg *config
	out io.Writer
}

func newDeriveCommand(cfg *config, out io.Writer) *deriveCommand {
	return &deriveCommand{cfg: cfg, out: out}
}

func (x *deriveCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"derive",
		"Derive an extended key and its addresses",
		"Derive the extended key at a path from a mnemonic or seed and "+
			"print it together with its transparent addresses; "+
			"for an account level key the first receive "+
			"addresses are listed as well",
		x,
	)
	return err
}

func (x *deriveCommand) Execute(_ []string) error {
	net, err := x.cfg.load()
	if err != nil {
		return err
	}

	w, err := x.openWallet(net)
	if err != nil {
		return err
	}
	defer w.Zero()

	path, err := wallet.AccountPath(net, x.Account)
	if err != nil {
		return err
	}
	if x.Path != "" {
		path, err = bip32.ParsePath(x.Path)
		if err != nil {
			return err
		}
	}

	key, err := w.DerivePath(path)
	if err != nil {
		return err
	}
	defer key.Zero()

	analyzer := &KeyAnalyzer{Net: net}
	info, err := analyzer.describe(key.String(), key)
	if err != nil {
		return err
	}

	fmt.Fprintf(x.out, "Path: %s\n", path)
	fmt.Fprintf(x.out, "Extended Private Key: %s\n", key.String())
	fmt.Fprintf(x.out, "Extended Public Key: %s\n", key.Public().String())
	fmt.Fprintf(x.out, "Key Origin: %s\n",
		KeyOriginFor(w.MasterFingerprint(), key))
	fmt.Fprintln(x.out)
	DisplayInfo(x.out, info)

	if path.Len() != 3 {
		return nil
	}
	for i := uint32(0); i < x.Count; i++ {
		addr, err := wallet.AccountAddress(key.Public(),
			wallet.ExternalBranch, i)
		if err != nil {
			return err
		}
		fmt.Fprintf(x.out, "  0/%d: %s\n", i, addr)
	}
	return nil
}

func (x *deriveCommand) openWallet(net bip32.Network) (*wallet.Wallet, error) {
	switch {
	case x.Mnemonic != "" && x.Seed != "":
		return nil, errors.New("use either --mnemonic or --seed, not both")

	case x.Mnemonic != "":
		return wallet.New(x.Mnemonic, x.Passphrase, net)

	case x.Seed != "":
		seed, err := hex.DecodeString(x.Seed)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %w", err)
		}
		defer clear(seed)
		return wallet.NewFromSeed(seed, net)

	default:
		return nil, errors.New("one of --mnemonic or --seed is required")
	}
}

type inspectCommand struct {
	Path   string `long:"path" description:"Derive this path relative to the key before inspecting, e.g. m/0/1"`
	Origin bool   `long:"origin" description:"Treat the argument as a key origin expression like pkh([fp/44'/133'/0']xpub.../0/*)"`

	cfg *config
	out io.Writer
}

func newInspectCommand(cfg *config, out io.Writer) *inspectCommand {
	return &inspectCommand{cfg: cfg, out: out}
}

func (x *inspectCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"inspect",
		"Analyze an extended key",
		"Analyze an xprv, xpub, tprv or tpub and print its metadata "+
			"and transparent addresses",
		x,
	)
	return err
}

func (x *inspectCommand) Execute(args []string) error {
	net, err := x.cfg.load()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("exactly one extended key is required")
	}

	analyzer := &KeyAnalyzer{Net: net}
	text := args[0]
	if x.Origin {
		origin, err := analyzer.ParseKeyOrigin(text)
		if err != nil {
			return err
		}
		DisplayKeyOrigin(x.out, origin)
		text = origin.Key
	}

	var info *KeyInfo
	if x.Path != "" {
		path, err := bip32.ParsePath(x.Path)
		if err != nil {
			return err
		}
		info, err = analyzer.DeriveFromPath(text, path)
		if err != nil {
			return err
		}
	} else {
		info, err = analyzer.Analyze(text)
		if err != nil {
			return err
		}
	}

	DisplayInfo(x.out, info)
	return nil
}

type parseCommand struct {
	cfg *config
	out io.Writer
}

func newParseCommand(cfg *config, out io.Writer) *parseCommand {
	return &parseCommand{cfg: cfg, out: out}
}

func (x *parseCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"parse",
		"Decode Zcash addresses",
		"Decode transparent, Sprout, Sapling and unified addresses and "+
			"print their receivers",
		x,
	)
	return err
}

func (x *parseCommand) Execute(args []string) error {
	if _, err := x.cfg.load(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("at least one address is required")
	}

	for _, text := range args {
		addr, err := zcash.ParseAddress(text)
		if err != nil {
			return fmt.Errorf("cannot parse %s: %w", text, err)
		}
		DisplayAddressInfo(x.out, DescribeAddress(addr))
	}
	return nil
}

type unifyCommand struct {
	cfg *config
	out io.Writer
}

func newUnifyCommand(cfg *config, out io.Writer) *unifyCommand {
	return &unifyCommand{cfg: cfg, out: out}
}

func (x *unifyCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"unify",
		"Combine addresses into a unified address",
		"Combine the receivers of transparent, Sapling and unified "+
			"addresses of the selected network into one unified "+
			"address",
		x,
	)
	return err
}

func (x *unifyCommand) Execute(args []string) error {
	net, err := x.cfg.load()
	if err != nil {
		return err
	}

	addrs := make([]zcash.Address, 0, len(args))
	for _, text := range args {
		addr, err := zcash.DecodeAddress(text, net)
		if err != nil {
			return fmt.Errorf("cannot use %s: %w", text, err)
		}
		addrs = append(addrs, addr)
	}

	ua, err := zcash.CombineAddresses(addrs...)
	if err != nil {
		return err
	}
	fmt.Fprintln(x.out, ua)
	return nil
}
