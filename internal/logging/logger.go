package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Level controls which messages the logger emits
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a leveled, structured logger backed by logrus
type Logger struct {
	log *logrus.Logger
}

// Field is a single structured logging field
type Field struct {
	fields logrus.Fields
}

// New creates a logger that writes to stderr at the given level
func New(level Level) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	switch level {
	case LevelDebug:
		log.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		log.SetLevel(logrus.WarnLevel)
	case LevelError:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{log: log}
}

// WithField attaches a single key/value pair to a log entry
func WithField(key string, value interface{}) Field {
	return Field{fields: logrus.Fields{key: value}}
}

// WithFields attaches multiple key/value pairs to a log entry
func WithFields(fields map[string]interface{}) Field {
	return Field{fields: logrus.Fields(fields)}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.entry(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.entry(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.entry(fields).Warn(msg)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.entry(fields).Error(msg)
}

func (l *Logger) entry(fields []Field) *logrus.Entry {
	entry := logrus.NewEntry(l.log)
	for _, f := range fields {
		entry = entry.WithFields(f.fields)
	}
	return entry
}
