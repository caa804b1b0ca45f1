package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/btcsuite/btclog"
	"github.com/zcashkit/zkeys/bip32"
	"github.com/zcashkit/zkeys/wallet"
	"github.com/zcashkit/zkeys/zcash"
)

// logWriter implements an io.Writer that outputs to standard error so that
// log lines never mix with command output.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	return os.Stderr.Write(p)
}

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logWriter{})

	log      = backendLog.Logger("ZKEY")
	bip32Log = backendLog.Logger("BIP3")
	zadrLog  = backendLog.Logger("ZADR")
	wlltLog  = backendLog.Logger("WLLT")
)

// Initialize package-global logger variables.
func init() {
	bip32.UseLogger(bip32Log)
	zcash.UseLogger(zadrLog)
	wallet.UseLogger(wlltLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"ZKEY": log,
	"BIP3": bip32Log,
	"ZADR": zadrLog,
	"WLLT": wlltLog,
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) error {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q, subsystems are %v",
			logLevel, supportedSubsystems())
	}

	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
