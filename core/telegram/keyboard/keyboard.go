// Package keyboard builds inline keyboards whose buttons carry raw callback data.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is one inline button. Data is sent back verbatim on press and must
// fit Telegram's 64-byte callback limit.
type Button struct {
	Text string
	Data string
}

// MaxDataLen is Telegram's limit for callback data in bytes.
const MaxDataLen = 64

// Rows builds an inline markup with one slice per row. Empty rows are dropped.
func Rows(rows ...[]Button) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for i, b := range row {
			r[i] = tele.InlineButton{Text: b.Text, Data: b.Data}
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// Chunk splits buttons into rows of at most n; n <= 1 gives one per row.
func Chunk(buttons []Button, n int) [][]Button {
	if n < 1 {
		n = 1
	}
	rows := make([][]Button, 0, (len(buttons)+n-1)/n)
	for i := 0; i < len(buttons); i += n {
		rows = append(rows, buttons[i:min(i+n, len(buttons))])
	}
	return rows
}

// Valid reports whether every button's data fits the callback limit.
func Valid(m *tele.ReplyMarkup) bool {
	if m == nil {
		return true
	}
	for _, row := range m.InlineKeyboard {
		for _, b := range row {
			if len(b.Data) > MaxDataLen {
				return false
			}
		}
	}
	return true
}
