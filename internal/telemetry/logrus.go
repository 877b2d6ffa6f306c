package telemetry

import "github.com/sirupsen/logrus"

// WrapLogrus adapts a logrus entry to the Logger interface so
// components stay decoupled from the concrete logging library.
func WrapLogrus(entry *logrus.Entry) Logger {
	return &logrusAdapter{entry: entry}
}

type logrusAdapter struct {
	entry *logrus.Entry
}

func (l *logrusAdapter) Printf(format string, args ...any) {
	if l == nil || l.entry == nil {
		return
	}
	l.entry.Infof(format, args...)
}

// NewProcessLogger builds the logrus logger used for operational
// messages, tagged with the owning component.
func NewProcessLogger(component string, level logrus.Level) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger.WithFields(logrus.Fields{"component": component})
}
