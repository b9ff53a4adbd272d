package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger at the given level. When logFile is non-empty the
// output is written both to stdout and to that file, so chat history
// survives restarts even without an external log collector.
func New(level, logFile string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	out := io.Writer(os.Stdout)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Warnf("Could not open log file %s: %v", logFile, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	logger.SetOutput(out)

	return logger
}

// WithFields creates a logger entry with the specified fields
func WithFields(logger *logrus.Logger, fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}
