package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Options controls where and how verbosely the service logs.
type Options struct {
	Dir   string // daily log files are written here; empty disables the file sink
	Level string // logrus level name, defaults to info
	JSON  bool
}

// SetupLogger configures the logger: console plus a dated file under opts.Dir.
func SetupLogger(opts Options) error {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	if opts.Dir == "" {
		log.SetOutput(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := filepath.Join(opts.Dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	return nil
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Info logs at info level.
func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Warning logs at warning level.
func Warning(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// Error logs at error level.
func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

// Debug logs at debug level.
func Debug(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// WithFields returns an entry carrying structured context.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// WithError returns an entry carrying err.
func WithError(err error) *logrus.Entry {
	return log.WithError(err)
}

// Fields is re-exported so callers don't import logrus directly.
type Fields = logrus.Fields
