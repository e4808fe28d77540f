package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures logrus for the whole process.
func Init(level string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}
