package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewDefaultLogger returns a logger writing to stderr, leaving stdout to the
// probe report
func NewDefaultLogger(level, format string) logrus.FieldLogger {
	return NewLogger(os.Stderr, level, format)
}

// NewLogger returns a logger writing to out with the given level and format
func NewLogger(out io.Writer, level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	// Set logger format
	switch format {
	case "pretty":
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	// "text" is the default
	default:
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	// Set logger level, warn is the default
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)

	return log
}
