package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/ciphrex/mSIGNA-sub003/pkg/builder"
	"github.com/ciphrex/mSIGNA-sub003/pkg/merkle"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
	"github.com/jrick/logrotate/rotator"
)

// logWriter writes to stderr and, once initialized, to the log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	// backendLog is the backend every subsystem logger writes through.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is nil unless --logdir was given. It must be closed on
	// exit.
	logRotator *rotator.Rotator

	cmndLog = backendLog.Logger("CMND")
	wireLog = backendLog.Logger("WIRE")
	mrklLog = backendLog.Logger("MRKL")
	bldrLog = backendLog.Logger("BLDR")
)

func init() {
	wire.UseLogger(wireLog)
	merkle.UseLogger(mrklLog)
	builder.UseLogger(bldrLog)
}

// subsystemLoggers maps each subsystem identifier to its logger.
var subsystemLoggers = map[string]btclog.Logger{
	"CMND": cmndLog,
	"WIRE": wireLog,
	"MRKL": mrklLog,
	"BLDR": bldrLog,
}

// initLogRotator starts writing log output to logFile, rolling it into the
// same directory.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevels sets every subsystem logger to logLevel.
func setLogLevels(logLevel string) error {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q", logLevel)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
