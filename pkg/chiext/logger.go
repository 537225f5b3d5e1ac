// Package chiext holds chi middleware that logs through log/slog.
package chiext

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs each request once it finishes. Server errors log at error level, the rest at debug
// so a client polling the API does not flood the log.
func Logger() func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&LogFormatter{Logger: slog.Default()})
}

type LogFormatter struct {
	Logger *slog.Logger
}

func (l *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []any{slog.String("from", r.RemoteAddr)}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}

	return &logEntry{
		logger: l.Logger,
		attrs:  attrs,
		msg:    fmt.Sprintf("%s %s %s", r.Method, r.RequestURI, r.Proto),
	}
}

type logEntry struct {
	logger *slog.Logger
	attrs  []any
	msg    string
}

func (l *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {
	attrs := append(l.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.String("elapsed", elapsed.String()),
	)

	if status >= 500 {
		l.logger.Error(l.msg, attrs...)
		return
	}
	l.logger.Debug(l.msg, attrs...)
}

func (l *logEntry) Panic(v any, stack []byte) {
	l.logger.Error("Handler panicked", append(l.attrs, slog.Any("panic", v), slog.String("stack", string(stack)))...)
}
