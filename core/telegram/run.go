// Package telegram assembles and runs a telebot bot: poller, HTTP client,
// middleware chain, routes and command menu.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	"github.com/m3rciful/potzbot/core/logger"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"
	tgsender "github.com/m3rciful/potzbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Route binds a handler to a telebot endpoint: a "/command" string or a
// telebot constant such as tele.OnCallback.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions configure RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry
	HTTP     HTTPOptions

	DispatcherOptions tgsender.Options
	Middlewares       []Middleware
	// Routes may be built lazily once the bot exists, e.g. to capture it.
	Routes func(bot *tele.Bot) []Route

	// KeepWebhook skips removing a stale webhook before long polling.
	KeepWebhook bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime is handed to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot and serves updates until ctx is cancelled.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if opts.Config == nil {
		return errors.New("telegram: nil config")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	start := time.Now()
	poller := BuildPoller(cfg)
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(opts.HTTP),
		OnError: func(err error, c tele.Context) {
			var lctx context.Context = ctx
			if c != nil {
				lctx = tghelpers.BuildContext(c)
			}
			logger.Error(lctx, "tg", "bot.error", slog.String("err", tgsender.Redact(err)))
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: new bot: %s", tgsender.Redact(err))
	}

	if wh, ok := poller.(*tele.Webhook); ok {
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", wh.Listen),
			slog.Duration("took", logger.Took(start)),
		)
	} else {
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("timeout", longPollTimeout(cfg)),
			slog.Duration("took", logger.Took(start)),
		)
		if !opts.KeepWebhook {
			if err := bot.RemoveWebhook(); err != nil {
				logger.Warn(ctx, "tg", "webhook.remove_failed", slog.String("err", tgsender.Redact(err)))
			}
		}
	}

	dispatcher := tgsender.NewDispatcher(opts.DispatcherOptions)
	tghelpers.SetDispatcher(dispatcher)
	defer func() {
		dispatcher.Close()
		tghelpers.SetDispatcher(nil)
		sent, failed := dispatcher.Stats()
		logger.Info(context.Background(), "tg.sender", "sender.closed",
			slog.Uint64("sent", sent),
			slog.Uint64("failed", failed),
		)
	}()

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	if opts.Routes != nil {
		for _, r := range opts.Routes(bot) {
			if r.Endpoint != nil && r.Handler != nil {
				bot.Handle(r.Endpoint, r.Handler)
			}
		}
	}
	InitBotCommands(bot, reg)

	rt := Runtime{Bot: bot, Dispatcher: dispatcher, Registry: reg}
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
	case <-done:
	}

	if opts.OnStop != nil {
		if err := opts.OnStop(context.WithoutCancel(ctx), rt); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
