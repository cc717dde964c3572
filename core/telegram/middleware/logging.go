package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const receiptTTL = 10 * time.Second

// receipts remembers recently logged update ids so an update that passes
// through the chain twice is logged once.
type receipts struct {
	mu   sync.Mutex
	seen map[int]time.Time
}

func (r *receipts) first(id int, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, at := range r.seen {
		if now.Sub(at) > receiptTTL {
			delete(r.seen, k)
		}
	}
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = now
	return true
}

var logged = &receipts{seen: make(map[int]time.Time)}

// Logger attaches the request context to the update and logs its receipt at
// debug level, subject to debug sampling.
func Logger(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		upd := c.Update()
		if logger.ShouldSampleDebug() && logged.first(upd.ID, time.Now()) {
			attrs := make([]slog.Attr, 0, 4)
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			switch {
			case upd.Callback != nil:
				attrs = append(attrs, slog.String("kind", "callback"),
					slog.String("payload", logger.SanitizeLimit(callbacks.Data(upd.Callback), 64)))
			case upd.Message != nil:
				attrs = append(attrs, slog.String("kind", "message"),
					slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
			}
			logger.Debug(ctx, "tg", "update.received", attrs...)
		}
		return next(c)
	}
}
