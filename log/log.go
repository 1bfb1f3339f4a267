// Package log is the levelled logger of the node. Commands initialize it
// from the config once; packages log through the package-level helpers.
package log

import (
	"io"
	"os"

	"github.com/WalletTeam/wallet-go-node/config"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// The default logger writes plain text to stdout until InitLog runs, so
// packages can log before (or without) command-line initialization.
var logger = log.NewTMLogger(os.Stdout)

// InitLog builds the node logger from the config and installs it as the
// package logger. It panics on a bad config: a node with no usable log
// destination should not come up at all.
func InitLog(cfg *config.Config) {
	l, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	SetLogger(l)
}

// NewLogger returns a logger writing to cfg.LogPath in cfg.LogFormat,
// filtered by the per-module levels of cfg.LogLevel.
func NewLogger(cfg *config.Config) (log.Logger, error) {
	var dest io.Writer = os.Stdout
	if cfg.LogPath != "stdout" {
		file, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrapf(err, "can't open log file %s", cfg.LogPath)
		}

		dest = file
	}

	var l log.Logger
	switch cfg.LogFormat {
	case config.LogFormatJSON:
		l = log.NewTMJSONLogger(dest)
	case config.LogFormatPlain:
		l = log.NewTMLogger(dest)
	default:
		return nil, errors.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return flags.ParseLogLevel(cfg.LogLevel, l, "info")
}

func SetLogger(l log.Logger) {
	logger = l
}

func Info(msg string, ctx ...interface{}) {
	logger.Info(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
}

func Fatal(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
	os.Exit(1)
}

func With(keyvals ...interface{}) log.Logger {
	return logger.With(keyvals...)
}
