package state

import (
	"context"
	"errors"
	"reflect"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type light string

const (
	off   light = "off"
	on    light = "on"
	blink light = "blink"
)

func lightRules() Rules[light] {
	return NewRules([]light{off, on, blink}, map[light][]light{
		off:   {on, blink, off},
		on:    {off},
		blink: {off},
	})
}

func TestRulesDropSelfLoops(t *testing.T) {
	r := lightRules()
	for _, s := range r.States() {
		if r.Allows(s, s) {
			t.Fatalf("self transition allowed for %s", s)
		}
	}
	if got := r.Next(off); !reflect.DeepEqual(got, []light{on, blink}) {
		t.Fatalf("Next(off) = %v", got)
	}
}

func TestRulesNextReturnsCopy(t *testing.T) {
	r := lightRules()
	n := r.Next(off)
	n[0] = blink
	if !r.Allows(off, on) {
		t.Fatal("mutating Next result changed the table")
	}
}

func TestMachineTransition(t *testing.T) {
	m := NewMachine(lightRules(), on)
	if m.Transition(context.Background(), blink) {
		t.Fatal("on -> blink should be rejected")
	}
	if m.Current() != on {
		t.Fatalf("state changed on rejection: %s", m.Current())
	}
	if !m.Transition(context.Background(), off) || m.Current() != off {
		t.Fatalf("on -> off failed, state %s", m.Current())
	}
	if !m.CanTransition(blink) {
		t.Fatal("off -> blink should be allowed")
	}
}

func TestKnown(t *testing.T) {
	r := lightRules()
	if !r.Known(blink) || r.Known(light("strobe")) {
		t.Fatal("Known misreports membership")
	}
}

type counter struct{ Hits int }

type memStore struct {
	loads, saves int
	data         map[int64]*counter
}

func (m *memStore) Load(_ context.Context, chatID int64) *counter {
	m.loads++
	if c, ok := m.data[chatID]; ok {
		cp := *c
		return &cp
	}
	return &counter{}
}

func (m *memStore) Save(_ context.Context, chatID int64, c *counter) {
	m.saves++
	m.data[chatID] = c
}

func newContext(t *testing.T) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b.NewContext(tele.Update{
		ID: 1,
		Message: &tele.Message{
			Chat:   &tele.Chat{ID: 77},
			Sender: &tele.User{ID: 5},
			Text:   "/roll",
		},
	})
}

func TestWithSessionLoadsAndSaves(t *testing.T) {
	store := &memStore{data: map[int64]*counter{77: {Hits: 2}}}
	boom := errors.New("boom")
	h := WithSession[counter](store)(func(c tele.Context) error {
		SessionFrom[counter](c).Hits++
		return boom
	})

	if err := h(newContext(t)); !errors.Is(err, boom) {
		t.Fatalf("handler error = %v", err)
	}
	if store.loads != 1 || store.saves != 1 {
		t.Fatalf("loads=%d saves=%d", store.loads, store.saves)
	}
	if store.data[77].Hits != 3 {
		t.Fatalf("hits = %d, want 3", store.data[77].Hits)
	}
}

func TestWithSessionDiscard(t *testing.T) {
	store := &memStore{data: map[int64]*counter{}}
	h := WithSession[counter](store)(func(c tele.Context) error {
		Discard(c)
		return nil
	})
	if err := h(newContext(t)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0", store.saves)
	}
}
