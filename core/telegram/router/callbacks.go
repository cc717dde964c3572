package router

import (
	"log/slog"

	"github.com/m3rciful/potzbot/core/logger"
	tg "github.com/m3rciful/potzbot/core/telegram"
	"github.com/m3rciful/potzbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute routes every inline button press by the first token of its
// payload. Unknown keys go to the registry's fallback. The query is always
// answered so the client stops its spinner.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		payload := callbacks.FromContext(c)
		key := callbacks.Key(payload)
		extras := []slog.Attr{slog.String("cb_key", logger.SanitizeLimit(key, 32))}

		h, ok := reg.Callback(key)
		if !ok {
			h = reg.CallbackNotFound()
			extras = append(extras, slog.String("reason", "not_found"))
		}
		err := run(c, handlerName("callback.", key), h, extras...)
		if !tghelpers.Answered(c) {
			_ = tghelpers.Toast(c, "")
		}
		return err
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
