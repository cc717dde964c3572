package keyboard

import (
	"strings"
	"testing"
)

func TestChunkedRows(t *testing.T) {
	buttons := []Button{{"1", "roll_1"}, {"2", "roll_2"}, {"3", "roll_3"}, {"4", "roll_4"}, {"5", "roll_5"}}
	m := Rows(Chunk(buttons, 3)...)
	if len(m.InlineKeyboard) != 2 || len(m.InlineKeyboard[0]) != 3 || len(m.InlineKeyboard[1]) != 2 {
		t.Fatalf("layout = %+v", m.InlineKeyboard)
	}
	if got := m.InlineKeyboard[1][1]; got.Text != "5" || got.Data != "roll_5" || got.Unique != "" {
		t.Fatalf("button = %+v", got)
	}
}

func TestRowsDropsEmpty(t *testing.T) {
	m := Rows(nil, []Button{{"Back", "root"}}, []Button{})
	if len(m.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d", len(m.InlineKeyboard))
	}
}

func TestChunk(t *testing.T) {
	if got := Chunk(make([]Button, 4), 0); len(got) != 4 {
		t.Fatalf("n=0 rows = %d", len(got))
	}
	if got := Chunk(nil, 3); len(got) != 0 {
		t.Fatalf("empty rows = %d", len(got))
	}
}

func TestValid(t *testing.T) {
	ok := Rows([]Button{{"x", "stress_minus_" + strings.Repeat("a", 32)}})
	if !Valid(ok) {
		t.Fatal("45-byte payload rejected")
	}
	long := Rows([]Button{{"x", strings.Repeat("a", 65)}})
	if Valid(long) {
		t.Fatal("65-byte payload accepted")
	}
}
