package middleware

import (
	"log/slog"

	"github.com/m3rciful/potzbot/core/logger"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configure AdminOnly. With AdminID 0 nobody is admin.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnly lets only the configured admin reach next.
func AdminOnly(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if opts.AdminID != 0 && user != nil && user.ID == opts.AdminID {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "access.denied",
				slog.String("outcome", "rejected"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
