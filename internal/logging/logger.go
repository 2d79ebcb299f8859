// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging defines the progress sink the shell engine reports to.
// Loggers are observational only; nothing they do affects generated files.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Logger receives progress notifications from the shell engine.
type Logger interface {
	// Log reports an informational message.
	Log(msg string)
	// Skip marks a progress step.
	Skip()
	// Write announces the file about to be written.
	Write(path string)
	// Pass reports a completed write.
	Pass()
}

// Console prints the default messages to Out (stdout when nil).
type Console struct {
	Out io.Writer
}

func (c Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Console) Log(msg string)    { _, _ = fmt.Fprintln(c.out(), msg) }
func (c Console) Skip()             { _, _ = fmt.Fprintln(c.out(), "Done.") }
func (c Console) Write(path string) { _, _ = fmt.Fprintf(c.out(), "Writing: %s.\n", path) }
func (c Console) Pass()             { _, _ = fmt.Fprintln(c.out(), "Success! 🎉") }

// Funcs is a Logger assembled from optional callbacks. Any nil callback
// falls back to Fallback, or to Console when Fallback is nil.
type Funcs struct {
	LogFunc   func(msg string)
	SkipFunc  func()
	WriteFunc func(path string)
	PassFunc  func()
	Fallback  Logger
}

func (f Funcs) fallback() Logger {
	if f.Fallback == nil {
		return Console{}
	}
	return f.Fallback
}

func (f Funcs) Log(msg string) {
	if f.LogFunc != nil {
		f.LogFunc(msg)
		return
	}
	f.fallback().Log(msg)
}

func (f Funcs) Skip() {
	if f.SkipFunc != nil {
		f.SkipFunc()
		return
	}
	f.fallback().Skip()
}

func (f Funcs) Write(path string) {
	if f.WriteFunc != nil {
		f.WriteFunc(path)
		return
	}
	f.fallback().Write(path)
}

func (f Funcs) Pass() {
	if f.PassFunc != nil {
		f.PassFunc()
		return
	}
	f.fallback().Pass()
}

// Zap forwards notifications to a structured zap logger.
type Zap struct {
	L *zap.Logger
}

// NewZap wraps l; a nil l yields a no-op logger.
func NewZap(l *zap.Logger) Zap {
	if l == nil {
		l = zap.NewNop()
	}
	return Zap{L: l}
}

func (z Zap) Log(msg string)    { z.L.Info(msg) }
func (z Zap) Skip()             { z.L.Debug("step done") }
func (z Zap) Write(path string) { z.L.Info("writing test shell", zap.String("path", path)) }
func (z Zap) Pass()             { z.L.Info("test shell written") }

// Nop discards every notification.
type Nop struct{}

func (Nop) Log(string)   {}
func (Nop) Skip()        {}
func (Nop) Write(string) {}
func (Nop) Pass()        {}

// OrDefault returns l, or a Console logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Console{}
	}
	return l
}
