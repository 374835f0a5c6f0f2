// Package dglog is a thin wrapper around logrus used by the rest of dirgen.
package dglog

import (
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger used throughout dirgen.
var Log *logrus.Logger

// Set log-level via env variable.
const logLevelEnvVar = "DIRGEN_LOG_LEVEL"

// Initialize initializes or resets the global logger (Log). logFile may be
// empty, in which case logs go to stderr.
func Initialize(logFile string) {
	Log = logrus.New()

	if logFile != "" {
		// #nosec G304
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logrus.Fatalf("Failed to open log file: %v", err)
		}
		Log.Out = file
	}

	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Log.SetLevel(resolveLevel(os.Getenv(logLevelEnvVar)))
}

// SetLevel allows callers to adjust the global logger level at runtime.
func SetLevel(level string) error {
	if Log == nil {
		return errors.New("logger not initialized")
	}

	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}

	Log.SetLevel(parsed)
	return nil
}

// resolveLevel calls parseLevel, falling back to INFO on any error so that a
// bad env var never prevents startup.
func resolveLevel(raw string) logrus.Level {
	parsed, err := parseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func parseLevel(raw string) (logrus.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return logrus.InfoLevel, nil
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return logrus.InfoLevel, err
	}
	return level, nil
}
