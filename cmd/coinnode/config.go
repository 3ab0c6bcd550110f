package main

import (
	"path/filepath"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
)

const defaultLogFilename = "coinnode.log"

// config holds the options shared by every command.
type config struct {
	Network    string `long:"network" description:"Network to use" choice:"mainnet" choice:"testnet3" choice:"regtest" default:"mainnet"`
	DebugLevel string `long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}" default:"info"`
	LogDir     string `long:"logdir" description:"Directory to log output to; logs go to stderr only when empty"`

	params *chaincfg.Params
}

// load resolves the network and starts logging. Commands call it before
// doing any work.
func (c *config) load() error {
	params, err := chaincfg.ParamsForName(c.Network)
	if err != nil {
		return err
	}
	c.params = params

	if c.LogDir != "" {
		logFile := filepath.Join(c.LogDir, params.Name, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return err
		}
	}
	if err := setLogLevels(c.DebugLevel); err != nil {
		return err
	}

	cmndLog.Debugf("Using network %s", params.Name)
	return nil
}

// close flushes the log file, if any.
func (c *config) close() {
	if logRotator != nil {
		logRotator.Close()
	}
}
