// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logger. Production environments emit
// JSON for log aggregation; everything else gets colored text output.
func NewLogger(logLevel, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(formatterFor(environment))

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", logLevel).Warn("Unknown log level, using info")
	}
	log.SetLevel(level)

	return log
}

func formatterFor(environment string) logrus.Formatter {
	if environment == "production" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	}
}
