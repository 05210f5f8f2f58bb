package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured entry. Attrs merges the record's attributes
// with those bound through Logger.With, so a component logger's
// "component" key shows up here.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogCapture is a slog.Handler that keeps every record in memory.
// Loggers derived with With share the parent's records.
type LogCapture struct {
	store *logStore
	bound []slog.Attr
	t     *testing.T
}

// NewTestLogger returns a debug-level logger and the capture behind it
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	h := &LogCapture{store: &logStore{}, t: t}
	return slog.New(h), h
}

func (h *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.bound)+r.NumAttrs())
	for _, a := range h.bound {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	bound = append(bound, attrs...)
	return &LogCapture{store: h.store, bound: bound, t: h.t}
}

// WithGroup is a no-op; the dashboard never logs grouped attributes.
func (h *LogCapture) WithGroup(string) slog.Handler { return h }

// GetRecordsByLevel returns the records logged at level, oldest first
func (h *LogCapture) GetRecordsByLevel(level slog.Level) []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var out []LogRecord
	for _, r := range h.store.records {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first record whose message contains msg
func (h *LogCapture) Find(msg string) (LogRecord, bool) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	for _, r := range h.store.records {
		if strings.Contains(r.Message, msg) {
			return r, true
		}
	}
	return LogRecord{}, false
}

func (h *LogCapture) ContainsMessage(msg string) bool {
	_, ok := h.Find(msg)
	return ok
}

// AssertLogContains fails t unless a record at level contains msg
func AssertLogContains(t *testing.T, h *LogCapture, level slog.Level, msg string) {
	t.Helper()

	records := h.GetRecordsByLevel(level)
	for _, r := range records {
		if strings.Contains(r.Message, msg) {
			return
		}
	}
	t.Errorf("no %s record containing %q", level, msg)
	for _, r := range records {
		t.Logf("  %s", r.Message)
	}
}
