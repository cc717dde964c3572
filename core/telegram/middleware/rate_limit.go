package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/potzbot/core/logger"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// FloodOptions configure Flood.
type FloodOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{} // update kinds: "callback", "message"
	OnLimited tele.HandlerFunc
	Now       func() time.Time
}

// UpdateKind names the update for exclusion lists and logs.
func UpdateKind(c tele.Context) string {
	upd := c.Update()
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	}
	return "other"
}

// Flood drops updates from a user that arrive sooner than Interval after
// their previous accepted one. It guards the process, independent of any
// per-chat limit the game applies.
func Flood(opts FloodOptions) tele.MiddlewareFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var (
		mu   sync.Mutex
		last = make(map[int64]time.Time)
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c)
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}
			t := now()
			mu.Lock()
			prev, seen := last[user.ID]
			limited := seen && t.Sub(prev) < opts.Interval
			if !limited {
				last[user.ID] = t
			}
			mu.Unlock()
			if !limited {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "flood.limited",
				slog.String("kind", kind),
				slog.String("outcome", "rate_limited"),
			)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}
