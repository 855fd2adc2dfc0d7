package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is passed through to logrus as structured fields.
type Fields = logrus.Fields

var (
	std     = newStandard()
	stdLock sync.RWMutex
)

func newStandard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return logger
}

// Standard returns the logger shared by the SDK.
func Standard() logrus.FieldLogger {
	stdLock.RLock()
	defer stdLock.RUnlock()
	return std
}

// SetOutput redirects SDK logs.
func SetOutput(w io.Writer) {
	stdLock.Lock()
	defer stdLock.Unlock()
	std.SetOutput(w)
}

// SetLevel accepts logrus level names. An empty name keeps the current
// level; an unknown name is an error and also keeps it.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	stdLock.Lock()
	defer stdLock.Unlock()
	std.SetLevel(lvl)
	return nil
}

func IsDebugEnabled() bool {
	stdLock.RLock()
	defer stdLock.RUnlock()
	return std.IsLevelEnabled(logrus.DebugLevel)
}

func WithFields(fields Fields) logrus.FieldLogger {
	return Standard().WithFields(fields)
}

func Debug(args ...interface{}) {
	Standard().Debug(args...)
}

func Info(args ...interface{}) {
	Standard().Info(args...)
}

func Warn(args ...interface{}) {
	Standard().Warn(args...)
}

func Error(args ...interface{}) {
	Standard().Error(args...)
}
