package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Production logs are JSON so they can be
// shipped as-is; everything else gets the human readable text formatter.
func New(level string, production bool) *logrus.Logger {
	return newLogger(os.Stdout, level, production)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	return newLogger(io.Discard, "panic", false)
}

func newLogger(out io.Writer, level string, production bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if production {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
