package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Attr keys with special meaning to the handlers. "logger" names the emitting
// component, "exception" carries rendered stack text. Everything else a caller
// attaches is an extra field merged into the record top-level.
const (
	attrLogger    = "logger"
	attrException = "exception"
	attrRequestID = "request_id"
)

// levelString renders a slog level using Python-style severity names, which
// is what log consumers downstream already filter on.
func levelString(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// ParseLevel maps a config string to a slog level. Unknown values fall back
// to INFO rather than failing startup.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "info", "INFO", "":
		return slog.LevelInfo
	case "warning", "WARNING", "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSONHandler emits one JSON object per record with the fixed keys
// timestamp, level, logger, message, followed by request_id (only when a
// correlation ID is set on the context), caller extras at the top level, and
// exception (only when stack text was attached).
type JSONHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	min        slog.Level
	loggerMins map[string]slog.Level
	attrs      []slog.Attr
}

// NewJSONHandler creates a JSON handler writing newline-terminated records
// to w. Records below min are dropped; loggerMins raises the floor for
// individual named loggers (noise suppression).
func NewJSONHandler(w io.Writer, min slog.Level, loggerMins map[string]slog.Level) *JSONHandler {
	return &JSONHandler{
		mu:         &sync.Mutex{},
		w:          w,
		min:        min,
		loggerMins: loggerMins,
	}
}

func (h *JSONHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.min
}

func (h *JSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &c
}

// WithGroup is accepted for slog.Handler conformance; records are flat, so
// groups are not nested.
func (h *JSONHandler) WithGroup(string) slog.Handler { return h }

func (h *JSONHandler) Handle(ctx context.Context, r slog.Record) error {
	name, exception, extras := splitAttrs(h.attrs, r)
	if min, ok := h.loggerMins[name]; ok && r.Level < min {
		return nil
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	writeField(buf, "timestamp", ts.UTC().Format(time.RFC3339), true)
	writeField(buf, "level", levelString(r.Level), false)
	writeField(buf, attrLogger, name, false)
	writeField(buf, "message", r.Message, false)
	if id := RequestIDFromContext(ctx); id != "" {
		writeField(buf, attrRequestID, id, false)
	}
	for _, a := range extras {
		if reservedKey(a.Key) {
			continue
		}
		writeField(buf, a.Key, a.Value.Resolve().Any(), false)
	}
	if exception != "" {
		writeField(buf, attrException, exception, false)
	}
	buf.WriteString("}\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// TextHandler emits human-readable lines for local development:
//
//	2006-01-02 15:04:05 - <logger> - <level> - <message>
//
// It deliberately omits the correlation ID and extra fields; text mode is a
// dev convenience, not a machine-parseable channel.
type TextHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	min        slog.Level
	loggerMins map[string]slog.Level
	attrs      []slog.Attr
}

// NewTextHandler creates a text handler writing to w.
func NewTextHandler(w io.Writer, min slog.Level, loggerMins map[string]slog.Level) *TextHandler {
	return &TextHandler{
		mu:         &sync.Mutex{},
		w:          w,
		min:        min,
		loggerMins: loggerMins,
	}
}

func (h *TextHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.min
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)
	return &c
}

func (h *TextHandler) WithGroup(string) slog.Handler { return h }

func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	name, _, _ := splitAttrs(h.attrs, r)
	if min, ok := h.loggerMins[name]; ok && r.Level < min {
		return nil
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s - %s - %s - %s\n",
		ts.UTC().Format("2006-01-02 15:04:05"), name, levelString(r.Level), r.Message)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write([]byte(line))
	return err
}

// splitAttrs walks bound attrs then record attrs, pulling out the logger
// name and exception text and collecting the rest as extras.
func splitAttrs(bound []slog.Attr, r slog.Record) (name, exception string, extras []slog.Attr) {
	take := func(a slog.Attr) {
		switch a.Key {
		case attrLogger:
			name = a.Value.String()
		case attrException:
			exception = a.Value.String()
		default:
			extras = append(extras, a)
		}
	}
	for _, a := range bound {
		take(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		take(a)
		return true
	})
	return name, exception, extras
}

// reservedKey reports whether an extra field would collide with one of the
// fixed record keys. Colliding extras are dropped, not allowed to corrupt
// the record shape.
func reservedKey(k string) bool {
	switch k {
	case "timestamp", "level", attrLogger, "message", attrRequestID, attrException:
		return true
	}
	return false
}

// writeField appends one `"key":value` pair. Values that cannot be
// serialized are stringified rather than aborting the record.
func writeField(buf *bytes.Buffer, key string, value any, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	buf.Write(k)
	buf.WriteByte(':')
	v, err := json.Marshal(value)
	if err != nil {
		v, _ = json.Marshal(fmt.Sprintf("%v", value))
	}
	buf.Write(v)
}
