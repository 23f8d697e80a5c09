package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger. When lokiHost is non-empty
// a fire-and-forget Loki hook ships entries to that endpoint.
func NewLogger(level, lokiHost string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Parse log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if lokiHost != "" {
		logger.AddHook(NewLokiHook(lokiHost, "releasarr"))
	}

	return logger
}
