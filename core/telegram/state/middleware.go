package state

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
)

const sessionKey = "chat_session"

// Store loads and saves one record per chat. Load never fails: a missing or
// unreadable record yields a fresh one. Save reports nothing; implementations
// log their own failures.
type Store[T any] interface {
	Load(ctx context.Context, chatID int64) *T
	Save(ctx context.Context, chatID int64, record *T)
}

// WithSession loads the chat's record into the telebot context before next
// runs and saves it afterwards, whatever next returned.
func WithSession[T any](store Store[T]) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return next(c)
			}
			ctx := tghelpers.BuildContext(c)
			record := store.Load(ctx, chat.ID)
			c.Set(sessionKey, record)
			err := next(c)
			if c.Get(sessionKey) != nil {
				store.Save(ctx, chat.ID, record)
			}
			return err
		}
	}
}

// SessionFrom returns the record loaded by WithSession, or nil.
func SessionFrom[T any](c tele.Context) *T {
	if c == nil {
		return nil
	}
	v, _ := c.Get(sessionKey).(*T)
	return v
}

// Discard tells WithSession not to save the record for this update.
func Discard(c tele.Context) {
	c.Set(sessionKey, nil)
}
