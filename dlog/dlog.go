// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dlog provides per-component leveled loggers. Each hardware
// controller gets its own handle, keyed by a label that is prefixed to
// every line. Output goes through github.com/platinasystems/log so that
// messages land in the kernel ring buffer when running on the device.
package dlog

import (
	"fmt"
	"strings"

	"github.com/platinasystems/log"
)

type Level int

const (
	Error Level = iota
	Warning
	Info
	Debug
	Trace
)

var levelNames = map[Level]string{
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Debug:   "debug",
	Trace:   "trace",
}

func (l Level) String() string {
	s, found := levelNames[l]
	if !found {
		return fmt.Sprint("level(", int(l), ")")
	}
	return s
}

// ParseLevel returns Info for an empty string so that components may pass
// an unset config value through.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return Info, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return Info, fmt.Errorf("invalid log level %q", s)
}

type Logger struct {
	Label string
	Level Level

	// print is swappable for tests; defaults to log.Print
	print func(args ...interface{})
}

func New(label string) *Logger {
	return &Logger{Label: label, Level: Info, print: log.Print}
}

// NewWith returns a logger whose output goes to fn instead of the kernel
// log; used by tests and by daemons that tee their output.
func NewWith(label string, fn func(args ...interface{})) *Logger {
	return &Logger{Label: label, Level: Trace, print: fn}
}

func (l *Logger) output(lvl Level, args ...interface{}) {
	if lvl > l.Level {
		return
	}
	prefixed := make([]interface{}, 0, len(args)+1)
	prefixed = append(prefixed, lvl.String()+": "+l.Label+": ")
	prefixed = append(prefixed, args...)
	l.print(prefixed...)
}

func (l *Logger) Error(args ...interface{})   { l.output(Error, args...) }
func (l *Logger) Warning(args ...interface{}) { l.output(Warning, args...) }
func (l *Logger) Info(args ...interface{})    { l.output(Info, args...) }
func (l *Logger) Debug(args ...interface{})   { l.output(Debug, args...) }
func (l *Logger) Trace(args ...interface{})   { l.output(Trace, args...) }

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.output(Error, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.output(Warning, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.output(Info, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.output(Debug, fmt.Sprintf(format, args...))
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.output(Trace, fmt.Sprintf(format, args...))
}
