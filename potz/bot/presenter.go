package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/core/telegram/keyboard"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
	"github.com/m3rciful/potzbot/core/telegram/middleware"
	"github.com/m3rciful/potzbot/core/telegram/sender"
	"github.com/m3rciful/potzbot/potz/game"
	"github.com/m3rciful/potzbot/potz/session"

	tele "gopkg.in/telebot.v4"
)

// Messenger is the part of the Bot API the presenter needs. *tele.Bot
// satisfies it.
type Messenger interface {
	Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
}

var (
	errNoMessenger      = errors.New("bot: messenger not bound")
	errKeyboardTooLarge = errors.New("bot: keyboard data exceeds callback limit")
)

// Presenter shows game replies. A rendered reply becomes the chat's single
// live interactive message; older keyboards are stripped first.
type Presenter struct {
	engine    *game.Engine
	messenger Messenger
}

// Show delivers r for the update. Plain replies go out as text, or as a
// toast when answering a button press. Rendered replies carry the view
// summary and the state keyboard.
func (p *Presenter) Show(ctx context.Context, c tele.Context, s *session.Session, r game.Reply) error {
	if !r.Render {
		if r.Text == "" {
			return nil
		}
		if c.Callback() != nil {
			return tghelpers.Toast(c, r.Text)
		}
		return tghelpers.SendText(c, r.Text)
	}
	if p.messenger == nil {
		return errNoMessenger
	}
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	text := p.engine.Summary(s)
	if r.Text != "" {
		text = r.Text + "\n\n" + text
	}

	markup := Keyboard(s, p.engine.Spell)
	if !keyboard.Valid(markup) {
		logger.Warn(ctx, "tg", "view.keyboard_oversized",
			slog.String("state", string(s.State)),
			slog.Int("limit", keyboard.MaxDataLen),
		)
		return errKeyboardTooLarge
	}

	stale := []int{s.InlineMessageID}
	if cb := c.Callback(); cb != nil && cb.Message != nil && cb.Message.ID != s.InlineMessageID {
		stale = append(stale, cb.Message.ID)
	}
	for _, id := range stale {
		if id != 0 {
			p.strip(ctx, c, chat.ID, id)
		}
	}
	s.InlineMessageID = 0

	msg, err := p.messenger.Send(chat, text, markup)
	if err != nil {
		return fmt.Errorf("bot: send view: %w", err)
	}
	s.InlineMessageID = msg.ID
	middleware.NoteMessage(c, true)
	logger.Debug(ctx, "tg", "view.sent",
		slog.String("state", string(s.State)),
		slog.Int("message_id", msg.ID),
		slog.Int("rows", len(markup.InlineKeyboard)),
	)
	return nil
}

// strip removes the keyboard of an earlier message. Messages that are gone
// or already bare are ignored.
func (p *Presenter) strip(ctx context.Context, c tele.Context, chatID int64, id int) {
	err := tghelpers.Background(c, "strip_keyboard", "editMessageReplyMarkup", func() error {
		_, err := p.messenger.EditReplyMarkup(tele.StoredMessage{MessageID: strconv.Itoa(id), ChatID: chatID}, nil)
		return err
	})
	if err == nil || sender.IsBadRequest(err) {
		return
	}
	logger.Warn(ctx, "tg", "view.strip_failed",
		slog.Int("message_id", id),
		slog.String("err", sender.Redact(err)),
	)
}
