package middleware

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m3rciful/potzbot/core/telemetry"
	tghelpers "github.com/m3rciful/potzbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Trace opens a span per update and stores the traced context on the update
// so logs carry trace and span ids.
func Trace(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		updateID, chatID, userID := tghelpers.IDs(c)
		ctx, span := telemetry.Start(tghelpers.BuildContext(c), "telegram.update",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.Int("telegram.update_id", updateID),
				attribute.Int64("telegram.chat_id", chatID),
				attribute.Int64("telegram.user_id", userID),
				attribute.String("telegram.kind", UpdateKind(c)),
			),
		)
		defer span.End()
		tghelpers.StoreContext(c, ctx)

		err := next(c)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
