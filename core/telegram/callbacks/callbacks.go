// Package callbacks parses inline button data. Buttons carry raw
// underscore-joined payloads such as "stress_plus_Nyx"; the first token is
// the routing key.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Separator joins payload tokens.
const Separator = "_"

// Data returns the callback's raw payload, ignoring any telebot "\f" unique prefix.
func Data(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	data := strings.TrimPrefix(cb.Data, "\f")
	if cb.Unique != "" {
		data = strings.TrimPrefix(data, cb.Unique+"|")
		if data == cb.Unique {
			data = ""
		}
		return joinNonEmpty(cb.Unique, data)
	}
	return strings.TrimSpace(data)
}

// Key returns the routing key of a payload: its first token.
func Key(payload string) string {
	key, _, _ := strings.Cut(payload, Separator)
	return key
}

// Tokens splits a payload into at most n tokens so a trailing name keeps
// any separators it contains. n <= 0 splits fully.
func Tokens(payload string, n int) []string {
	if payload == "" {
		return nil
	}
	if n <= 0 {
		n = -1
	}
	return strings.SplitN(payload, Separator, n)
}

// Payload joins tokens into callback data.
func Payload(tokens ...string) string { return strings.Join(tokens, Separator) }

// FromContext returns the callback payload of the update, or "".
func FromContext(c tele.Context) string { return Data(c.Callback()) }

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	return a + Separator + b
}
