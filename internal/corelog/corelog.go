// Package corelog wraps logrus behind the small Logger interface the rest
// of the core depends on, so execution-time soft faults (unmapped memory
// access, invalid I/O writes) get a structured debug trail without the
// core panicking or the caller needing to know logrus exists.
package corelog

import "github.com/sirupsen/logrus"

// Logger is the logging surface every component takes a dependency on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a Logger backed by a logrus.Logger formatted for terse,
// single-line output.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// nullLogger discards everything; used in tests that don't want soft-fault
// noise on stdout.
type nullLogger struct{}

func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}

// NewNull returns a Logger that discards everything.
func NewNull() Logger {
	return nullLogger{}
}
