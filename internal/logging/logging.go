package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

// Config holds the process-wide logging settings. Set once at startup and
// never mutated afterwards.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Noisy server-side channels get a raised floor so access chatter does not
// drown application logs. The request interceptor logs under "http", which
// is unaffected.
func noisyLoggerLevels() map[string]slog.Level {
	return map[string]slog.Level{
		"http.access": slog.LevelWarn,
		"http.error":  slog.LevelInfo,
	}
}

// Setup installs the process-wide default logger from cfg. It is safe to
// call more than once: each call fully replaces the previous handler, it
// never stacks destinations. Unknown format values fall back to text,
// unknown level values to INFO.
func Setup(cfg Config) {
	SetupWriter(cfg, os.Stdout)
}

// SetupWriter is Setup with an explicit destination. Tests use it to capture
// output; production code should call Setup.
func SetupWriter(cfg Config, w io.Writer) {
	min := ParseLevel(cfg.Level)

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = NewJSONHandler(w, min, noisyLoggerLevels())
	default:
		h = NewTextHandler(w, min, noisyLoggerLevels())
	}
	slog.SetDefault(slog.New(h))
}

// Logger returns a named logger. The name surfaces as the "logger" field of
// every record emitted through it.
func Logger(name string) *slog.Logger {
	return slog.Default().With(slog.String(attrLogger, name))
}

// Exception returns an attr carrying the error message and the current
// stack, rendered into the record's "exception" field.
func Exception(err error) slog.Attr {
	return slog.String(attrException, fmt.Sprintf("%v\n%s", err, debug.Stack()))
}

// PanicException is Exception for recovered panic values.
func PanicException(v any) slog.Attr {
	return slog.String(attrException, fmt.Sprintf("%v\n%s", v, debug.Stack()))
}

// StdLogger adapts the default handler to a *log.Logger for components that
// only speak the stdlib interface (http.Server.ErrorLog). Records carry the
// given logger name, so the noise policy applies to them.
func StdLogger(name string, level slog.Level) *log.Logger {
	h := slog.Default().Handler().WithAttrs([]slog.Attr{slog.String(attrLogger, name)})
	return slog.NewLogLogger(h, level)
}
