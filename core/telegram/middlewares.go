package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	"github.com/m3rciful/potzbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Middleware is a named global middleware installed with bot.Use.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// DefaultMiddlewares returns the shared chain, outermost first: panic
// recovery, request context and receipt log, tracing, message counters, and
// the per-user flood guard when rate_limit.interval_ms is set.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.Recover},
		{Name: "logger", Use: middleware.Logger},
		{Name: "trace", Use: middleware.Trace},
		{Name: "counters", Use: middleware.CountMessages},
	}
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return mws
	}
	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
			exclude[kind] = struct{}{}
		}
	}
	return append(mws, Middleware{
		Name: "flood",
		Use: middleware.Flood(middleware.FloodOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   exclude,
			OnLimited: onLimited,
		}),
	})
}
