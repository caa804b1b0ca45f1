package main

import (
	"errors"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/zcashkit/zkeys/bip32"
)

// config holds the options shared by every command.
type config struct {
	Network    string `long:"network" short:"n" default:"mainnet" description:"Network to use {mainnet, testnet}"`
	DebugLevel string `long:"debuglevel" short:"d" default:"info" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical, off}"`
}

// load applies the logging options and returns the selected network.
func (c *config) load() (bip32.Network, error) {
	if err := setLogLevels(c.DebugLevel); err != nil {
		return 0, err
	}
	return bip32.ParseNetwork(c.Network)
}

// command is a zkeys subcommand.
type command interface {
	Register(parser *flags.Parser) error
}

func run(args []string, out io.Writer) error {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.Default)

	commands := []command{
		newMnemonicCommand(cfg, out),
		newDeriveCommand(cfg, out),
		newInspectCommand(cfg, out),
		newParseCommand(cfg, out),
		newUnifyCommand(cfg, out),
	}
	for _, cmd := range commands {
		if err := cmd.Register(parser); err != nil {
			return err
		}
	}

	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
		return
	}
	log.Debugf("zkeys failed: %v", err)
	os.Exit(1)
}
