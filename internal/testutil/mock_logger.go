// Package testutil provides shared test doubles.
package testutil

import (
	"sync"

	"github.com/SEG-UNIBE/BF-CBOM/internal/infrastructure/monitoring/logging"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// CapturingLogger implements logging.Logger and records every call so tests
// can assert on what was logged.  Safe for concurrent use.
type CapturingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	bound   []logging.Field
}

// NewCapturingLogger returns an empty CapturingLogger.
func NewCapturingLogger() *CapturingLogger {
	return &CapturingLogger{}
}

func (l *CapturingLogger) record(level, msg string, fields []logging.Field) {
	m := make(map[string]interface{}, len(l.bound)+len(fields))
	for _, f := range l.bound {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: m})
	l.mu.Unlock()
}

func (l *CapturingLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *CapturingLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *CapturingLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *CapturingLogger) Error(msg string, fields ...logging.Field) { l.record("error", msg, fields) }

// With returns a child logger that shares the entry sink with its parent.
func (l *CapturingLogger) With(fields ...logging.Field) logging.Logger {
	return &boundLogger{parent: l, bound: append(append([]logging.Field{}, l.bound...), fields...)}
}

// Named is a no-op for the capturing logger.
func (l *CapturingLogger) Named(string) logging.Logger { return l }

// Entries returns a copy of all captured entries.
func (l *CapturingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Messages returns the captured messages at the given level, in order.
func (l *CapturingLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// HasMessage reports whether any entry at the given level carries msg.
func (l *CapturingLogger) HasMessage(level, msg string) bool {
	for _, m := range l.Messages(level) {
		if m == msg {
			return true
		}
	}
	return false
}

type boundLogger struct {
	parent *CapturingLogger
	bound  []logging.Field
}

func (b *boundLogger) record(level, msg string, fields []logging.Field) {
	all := append(append([]logging.Field{}, b.bound...), fields...)
	b.parent.record(level, msg, all)
}

func (b *boundLogger) Debug(msg string, fields ...logging.Field) { b.record("debug", msg, fields) }
func (b *boundLogger) Info(msg string, fields ...logging.Field)  { b.record("info", msg, fields) }
func (b *boundLogger) Warn(msg string, fields ...logging.Field)  { b.record("warn", msg, fields) }
func (b *boundLogger) Error(msg string, fields ...logging.Field) { b.record("error", msg, fields) }

func (b *boundLogger) With(fields ...logging.Field) logging.Logger {
	return &boundLogger{parent: b.parent, bound: append(append([]logging.Field{}, b.bound...), fields...)}
}

func (b *boundLogger) Named(string) logging.Logger { return b }
