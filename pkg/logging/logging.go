package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the package-level logrus logger
func Init(debug bool) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debug("Debug logging enabled")
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// IsDebugEnabled reports whether debug output is on
func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}
