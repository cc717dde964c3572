// Package router binds registry entries to telebot endpoints and logs one
// summary line per handled update.
package router

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/potzbot/core/logger"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
	"github.com/m3rciful/potzbot/core/telegram/middleware"
	"github.com/m3rciful/potzbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// run executes fn under the handler name and logs the summary.
func run(c tele.Context, name string, fn tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	ctx := tghelpers.WithHandler(c, name)
	err := fn(c)

	messages, kb := middleware.Counters(c)
	attrs := []slog.Attr{
		slog.String("status", statusOf(err)),
		slog.String("outcome", statusOf(err)),
		slog.Int("messages", messages),
		slog.Bool("kb", kb),
		slog.Duration("took", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(sender.Redact(err), 256)),
			slog.String("err_kind", errKind(err)),
		)
	}
	attrs = append(attrs, extras...)
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
	}
	logger.LogEvent(ctx, logger.Component("tg"), level, "handler.handled", attrs...)
	return err
}

func statusOf(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

func errKind(err error) string {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return "api"
	}
	return sender.Classify(err)
}

// handlerName turns "/add_hero" or "stress" into a log-friendly name.
func handlerName(prefix, key string) string {
	key = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(key), "/"))
	if key == "" {
		key = "unknown"
	}
	return prefix + key
}
