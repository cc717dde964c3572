// Package bot exposes the game over Telegram: commands, button presses,
// views and the per-chat rate gate.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/potzbot/core/logger"
	tg "github.com/m3rciful/potzbot/core/telegram"
	"github.com/m3rciful/potzbot/core/telegram/callbacks"
	"github.com/m3rciful/potzbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
	"github.com/m3rciful/potzbot/core/telegram/state"
	"github.com/m3rciful/potzbot/potz/game"
	"github.com/m3rciful/potzbot/potz/session"

	tele "gopkg.in/telebot.v4"
)

const (
	textUnknownCommand = "Unknown command. See /help."
	textLimited        = "Slow down, potz! Try again in a moment."
	textReset          = "Chat state cleared."
	textResetFailed    = "Could not clear the chat state."
)

// Options configure a Bot.
type Options struct {
	Engine     *game.Engine
	Repository *session.Repository
	Messenger  Messenger // may be bound later with Bind
	Privacy    string
	MaxCalls   int           // per chat inside Window; 0 disables the gate
	Window     time.Duration
	Now        func() time.Time
}

// Bot holds the Telegram handlers of the game.
type Bot struct {
	engine    *game.Engine
	repo      *session.Repository
	presenter *Presenter
	privacy   string
	maxCalls  int
	window    time.Duration
	now       func() time.Time
}

// New validates opts and builds a Bot.
func New(opts Options) (*Bot, error) {
	if opts.Engine == nil {
		return nil, errors.New("bot: nil engine")
	}
	if opts.Repository == nil {
		return nil, errors.New("bot: nil repository")
	}
	b := &Bot{
		engine:    opts.Engine,
		repo:      opts.Repository,
		presenter: &Presenter{engine: opts.Engine, messenger: opts.Messenger},
		privacy:   opts.Privacy,
		maxCalls:  opts.MaxCalls,
		window:    opts.Window,
		now:       opts.Now,
	}
	if b.privacy == "" {
		b.privacy = game.TextDefaultPriv
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b, nil
}

// Bind sets the messenger used for interactive messages, usually the
// running *tele.Bot.
func (b *Bot) Bind(m Messenger) { b.presenter.messenger = m }

// Register adds the game's commands and callback keys to reg.
func (b *Bot) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: b.handle(b.start), Description: "Start the bot"}},
		{"/help", commands.Command{Handler: b.handle(b.help), Description: "List commands"}},
		{"/privacy", commands.Command{Handler: b.handle(b.privacyPolicy), Description: "What the bot stores"}},
		{"/roll", commands.Command{Handler: b.handle(b.openRoll), Description: "Open the dice keyboard"}},
		{"/roll20", commands.Command{Handler: b.handle(b.roll20), Description: "Roll a d20"}},
		{"/add_hero", commands.Command{Handler: b.handle(b.addHero), Description: "Add a hero"}},
		{"/remove_hero", commands.Command{Handler: b.handle(b.removeHero), Description: "Remove a hero"}},
		{"/add_timer", commands.Command{Handler: b.handle(b.addTimer), Description: "Add a timer"}},
		{"/remove_timer", commands.Command{Handler: b.handle(b.removeTimer), Description: "Remove a timer"}},
		{"/turn", commands.Command{Handler: b.handle(b.turn), Description: "Show or change the turn order"}},
		{"/claim", commands.Command{Handler: b.handle(b.claim), Description: "Claim a hero"}},
		{"/unclaim", commands.Command{Handler: b.handle(b.unclaim), Description: "Release your hero"}},
		{"/items", commands.Command{Handler: b.handle(b.items), Description: "Show or change a hero's items"}},
		{"/reset", commands.Command{Handler: b.reset, AdminOnly: true, Hidden: true}},
	}
	for _, c := range cmds {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return err
		}
	}
	for _, st := range session.Transitions.States() {
		if err := reg.RegisterCallback(string(st), b.handle(b.press)); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(b.UnknownCallback())
	reg.SetUnknownCommand(b.UnknownCommand())
	return nil
}

type action func(ctx context.Context, c tele.Context, s *session.Session) game.Reply

// handle runs fn against the session loaded by the session middleware and
// shows its reply.
func (b *Bot) handle(fn action) tele.HandlerFunc {
	return func(c tele.Context) error {
		s := state.SessionFrom[session.Session](c)
		if s == nil {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		return b.presenter.Show(ctx, c, s, fn(ctx, c, s))
	}
}

func (b *Bot) start(_ context.Context, _ tele.Context, _ *session.Session) game.Reply {
	return game.Reply{Text: game.TextWelcome, Render: true}
}

func (b *Bot) help(_ context.Context, _ tele.Context, _ *session.Session) game.Reply {
	return game.Reply{Text: game.Help}
}

func (b *Bot) privacyPolicy(_ context.Context, _ tele.Context, _ *session.Session) game.Reply {
	return game.Reply{Text: b.privacy}
}

func (b *Bot) openRoll(ctx context.Context, _ tele.Context, s *session.Session) game.Reply {
	return b.engine.OpenRoll(ctx, s)
}

func (b *Bot) roll20(ctx context.Context, _ tele.Context, _ *session.Session) game.Reply {
	return b.engine.Roll20(ctx)
}

func (b *Bot) addHero(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.AddHero(ctx, s, commands.Args(c))
}

func (b *Bot) removeHero(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.RemoveHero(ctx, s, commands.Args(c))
}

func (b *Bot) addTimer(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.AddTimer(ctx, s, commands.Args(c))
}

func (b *Bot) removeTimer(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.RemoveTimer(ctx, s, commands.Args(c))
}

func (b *Bot) turn(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.Turn(ctx, s, commands.Args(c))
}

func (b *Bot) claim(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.Claim(ctx, s, senderID(c), commands.Args(c))
}

func (b *Bot) unclaim(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.Unclaim(ctx, s, senderID(c))
}

func (b *Bot) items(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.Items(ctx, s, senderID(c), commands.Args(c))
}

func (b *Bot) press(ctx context.Context, c tele.Context, s *session.Session) game.Reply {
	return b.engine.Press(ctx, s, callbacks.FromContext(c))
}

// reset deletes the chat's record and keeps the session middleware from
// writing it back.
func (b *Bot) reset(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	state.Discard(c)
	if err := b.repo.Delete(ctx, chat.ID); err != nil {
		logger.Error(ctx, "session", "session.reset_failed",
			slog.String("key", session.Key(chat.ID)),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, textResetFailed)
	}
	logger.Info(ctx, "session", "session.reset", slog.String("key", session.Key(chat.ID)))
	return tghelpers.SendText(c, textReset)
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}
