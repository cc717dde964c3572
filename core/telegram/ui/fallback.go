// Package ui holds replies a bot gives when an update cannot be served.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider supplies handlers for unregistered commands, unknown
// callback keys and rate-limited updates.
type FallbackProvider interface {
	UnknownCommand() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
	Limited() tele.HandlerFunc
}
