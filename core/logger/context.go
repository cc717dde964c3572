package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

type ctxKey int

const (
	keyRID ctxKey = iota
	keyUpdateID
	keyUserID
	keyChatID
	keyLogger
	keyHandler
	keyTraceID
	keySpanID
)

func with(ctx context.Context, k ctxKey, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, k, v)
}

func stringFrom(ctx context.Context, k ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(k).(string)
	return s
}

func int64From(ctx context.Context, k ctxKey) int64 {
	if ctx == nil {
		return 0
	}
	switch v := ctx.Value(k).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// WithLogger stores log in ctx for propagation across layers.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return with(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, the root logger, or a discard logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(keyLogger).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if L != nil {
		return L
	}
	return discard
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context { return with(ctx, keyRID, rid) }

// RIDFrom extracts the correlation id.
func RIDFrom(ctx context.Context) string { return stringFrom(ctx, keyRID) }

// WithUpdateMeta attaches update, user and chat identifiers.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	ctx = with(ctx, keyUpdateID, int64(updateID))
	ctx = with(ctx, keyUserID, userID)
	return with(ctx, keyChatID, chatID)
}

// WithHandler records the handler name for downstream logs.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return with(ctx, keyHandler, handler)
}

// HandlerFrom returns the handler name.
func HandlerFrom(ctx context.Context) string { return stringFrom(ctx, keyHandler) }

// WithTrace attaches trace and span identifiers.
func WithTrace(ctx context.Context, traceID, spanID string) context.Context {
	if traceID != "" {
		ctx = with(ctx, keyTraceID, traceID)
	}
	if spanID != "" {
		ctx = with(ctx, keySpanID, spanID)
	}
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// TraceIDFrom extracts the trace id.
func TraceIDFrom(ctx context.Context) string { return stringFrom(ctx, keyTraceID) }

// SpanIDFrom extracts the span id.
func SpanIDFrom(ctx context.Context) string { return stringFrom(ctx, keySpanID) }

// UserIDFrom extracts the Telegram user id.
func UserIDFrom(ctx context.Context) int64 { return int64From(ctx, keyUserID) }

// ChatIDFrom extracts the chat id.
func ChatIDFrom(ctx context.Context) int64 { return int64From(ctx, keyChatID) }

// UpdateIDFrom extracts the update id.
func UpdateIDFrom(ctx context.Context) int { return int(int64From(ctx, keyUpdateID)) }

// contextFields copies identifiers carried by ctx into fields unless already set.
func contextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	setString := func(key, v string) {
		if _, ok := fields[key]; !ok && v != "" {
			fields[key] = v
		}
	}
	setInt := func(key string, v int64) {
		if _, ok := fields[key]; !ok && v != 0 {
			fields[key] = v
		}
	}
	setString("rid", RIDFrom(ctx))
	setString("handler", HandlerFrom(ctx))
	setString("trace_id", TraceIDFrom(ctx))
	setString("span_id", SpanIDFrom(ctx))
	setInt("update_id", int64(UpdateIDFrom(ctx)))
	setInt("user_id", UserIDFrom(ctx))
	setInt("chat_id", ChatIDFrom(ctx))
}

// Sanitize drops control and format runes except tab and newline.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(Sanitize(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max])
}

// BuildRID returns a correlation id in the form updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID rewrites a three-part RID into dot-joined base36 segments.
// Anything else is returned unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return rid
		}
		out[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(out, ".")
}
