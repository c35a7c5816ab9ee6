// Package logger provides the prefixed, colored application logger.
package logger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const colorReset = "\033[0m"

// Logger writes "[PREFIX] [LEVEL] message" lines, with the prefix colored.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger writing to w. color is an ANSI escape sequence; an
// empty color disables coloring.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if w == nil {
		return nil, errors.New("logger writer is required")
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&prefixFormatter{prefix: strings.ToUpper(prefix), color: color})

	return &Logger{entry: logrus.NewEntry(l)}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Error logs an error.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// With returns a logger that appends key=value to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

type prefixFormatter struct {
	prefix string
	color  string
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(e.Time.Format("2006/01/02 15:04:05 "))
	if f.color != "" {
		fmt.Fprintf(&b, "%s[%s]%s ", f.color, f.prefix, colorReset)
	} else {
		fmt.Fprintf(&b, "[%s] ", f.prefix)
	}
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(e.Level.String()), e.Message)
	for k, v := range e.Data {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
