// Package app wires configuration, infrastructure and the game into a
// runnable Telegram bot.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/potzbot/core/bootstrap"
	corecmd "github.com/m3rciful/potzbot/core/cmd"
	"github.com/m3rciful/potzbot/core/logger"
	tg "github.com/m3rciful/potzbot/core/telegram"
	"github.com/m3rciful/potzbot/core/telegram/router"
	"github.com/m3rciful/potzbot/core/telegram/sender"
	"github.com/m3rciful/potzbot/potz/bot"
	potzconfig "github.com/m3rciful/potzbot/potz/config"
	"github.com/m3rciful/potzbot/potz/game"
	"github.com/m3rciful/potzbot/potz/session"

	tele "gopkg.in/telebot.v4"
)

// App is the bootstrapped bot.
type App struct {
	cfg      *potzconfig.Config
	infra    *bootstrap.Result
	bot      *bot.Bot
	registry *tg.Registry
}

// LoadConfig adapts potzconfig.Load to the runner.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := potzconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bootstrap initializes infrastructure and builds the bot for the runner.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*potzconfig.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	infra, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	a, err := New(cfg, infra)
	if err != nil {
		_ = infra.Close(context.Background())
		return nil, err
	}
	return a, nil
}

// New builds the game and its handlers over already initialized infrastructure.
func New(cfg *potzconfig.Config, infra *bootstrap.Result) (*App, error) {
	engine, err := game.New(game.Options{
		Items:    cfg.Game.Items,
		Spelling: cfg.Game.Spelling,
	})
	if err != nil {
		return nil, fmt.Errorf("app: game engine: %w", err)
	}
	b, err := bot.New(bot.Options{
		Engine:     engine,
		Repository: session.NewRepository(infra.Store),
		Privacy:    cfg.Game.Privacy,
		MaxCalls:   cfg.Game.MaxCalls,
		Window:     cfg.Game.Window(),
	})
	if err != nil {
		return nil, err
	}
	reg := tg.NewRegistry()
	if err := b.Register(reg); err != nil {
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}
	logger.Info(context.Background(), "app", "app.built",
		slog.Int("commands", len(reg.CommandNames())),
		slog.Int("callbacks", len(reg.CallbackKeys())),
		slog.Int("items", len(cfg.Game.Items)),
		slog.Int("max_calls", cfg.Game.MaxCalls),
	)
	return &App{cfg: cfg, infra: infra, bot: b, registry: reg}, nil
}

// Describe reports the session store and handler counts for the ready event.
func (a *App) Describe() []slog.Attr {
	kind := a.infra.StoreKind
	if kind == "" {
		kind = bootstrap.StoreMemory
	}
	return []slog.Attr{
		slog.String("store", kind),
		slog.Int("commands", len(a.registry.CommandNames())),
		slog.Int("callbacks", len(a.registry.CallbackKeys())),
		slog.Int("max_calls", a.cfg.Game.MaxCalls),
		slog.Duration("window", a.cfg.Game.Window()),
	}
}

// TelegramRunOptions assembles the middleware chain and routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	mws := tg.DefaultMiddlewares(core, a.bot.Limited())
	mws = append(mws,
		tg.Middleware{Name: "session", Use: a.bot.Session()},
		tg.Middleware{Name: "rate_gate", Use: a.bot.RateGate},
	)
	return tg.RunOptions{
		Config:            core,
		Registry:          a.registry,
		DispatcherOptions: sender.Options{Tolerate: sender.IsBadRequest},
		Middlewares:       mws,
		Routes: func(tb *tele.Bot) []tg.Route {
			a.bot.Bind(tb)
			routes := router.CommandRoutes(a.registry, router.CommandOptions{
				AdminID:       core.Telegram.AdminID,
				OnAdminReject: a.bot.UnknownCommand(),
			})
			username := ""
			if tb.Me != nil {
				username = tb.Me.Username
			}
			return append(routes,
				router.CallbackRoute(a.registry),
				router.TextRoute(a.registry, username),
			)
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			return a.infra.Close(ctx)
		},
	}, nil
}
