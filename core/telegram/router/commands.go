package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/potzbot/core/logger"
	tg "github.com/m3rciful/potzbot/core/telegram"
	"github.com/m3rciful/potzbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandOptions configure CommandRoutes.
type CommandOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes returns a route per registered command and alias.
func CommandRoutes(reg *tg.Registry, opts CommandOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	admin := middleware.AdminOnly(middleware.AdminOptions{AdminID: opts.AdminID, OnReject: opts.OnAdminReject})

	var routes []tg.Route
	for _, name := range reg.CommandNames() {
		cmd, _ := reg.Command(name)
		h := cmd.Handler
		if cmd.AdminOnly {
			h = admin(h)
		}
		handler := named(handlerName("cmd.", name), h)
		routes = append(routes, tg.Route{Endpoint: name, Handler: handler})
		for _, alias := range cmd.Aliases {
			routes = append(routes, tg.Route{Endpoint: "/" + trimSlash(alias), Handler: handler})
		}
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "",
		slog.String("event", "routes.commands"),
		slog.Int("commands", len(reg.CommandNames())),
		slog.Int("routes", len(routes)),
	)
	return routes
}

func named(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error { return run(c, name, h) }
}

func trimSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}
