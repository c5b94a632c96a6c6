// Package logger configures the process-wide zerolog instance.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/substantialcattle5/naib/internal/constants"
)

var instance *zerolog.Logger

// Init configures the global logger. When logDir is non-empty a timestamped
// run log is written there in addition to the console output.
func Init(verbose bool, logDir string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}
	var output io.Writer = console

	if logDir != "" {
		if err := os.MkdirAll(logDir, constants.StandardDirPerms); err != nil {
			return err
		}
		name := "naib_" + time.Now().Format("20060102_150405") + ".log"
		fileWriter, err := os.OpenFile(filepath.Join(logDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.StandardFilePerms)
		if err != nil {
			return err
		}
		output = io.MultiWriter(console, fileWriter)
	}

	logger := zerolog.New(output).With().Timestamp().Logger().Level(level)
	instance = &logger
	return nil
}

// Get returns the global logger, or a discarding logger when Init was never
// called (tests mostly).
func Get() *zerolog.Logger {
	if instance == nil {
		logger := zerolog.New(io.Discard)
		instance = &logger
	}
	return instance
}

// ParseLevel maps a level name onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
