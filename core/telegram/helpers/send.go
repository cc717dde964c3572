package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher installs the pool used by Background. nil runs calls inline.
func SetDispatcher(d *sender.Dispatcher) { dispatcher.Store(d) }

// Dispatcher returns the installed pool, or nil.
func Dispatcher() *sender.Dispatcher { return dispatcher.Load() }

// Background queues a best-effort Bot API call for the update. When no pool
// is installed, or the queue cannot take it, the call runs inline.
func Background(c tele.Context, action, endpoint string, run func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.inline",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// SendText sends plain text to the update's chat.
func SendText(c tele.Context, text string, opts ...any) error {
	return c.Send(text, opts...)
}

const answeredKey = "potz.answered"

// Toast answers a callback query with a short notification. Non-callback
// updates are ignored. A query is answered at most once.
func Toast(c tele.Context, text string) error {
	if c.Callback() == nil || Answered(c) {
		return nil
	}
	c.Set(answeredKey, true)
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

// Answered reports whether the update's callback query was already answered.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}
