package router

import (
	"testing"

	tg "github.com/m3rciful/potzbot/core/telegram"
	"github.com/m3rciful/potzbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func newBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b
}

// answered marks the query as answered so the route does not call the API.
func answered(c tele.Context) { c.Set("potz.answered", true) }

func TestCallbackRouteByFirstToken(t *testing.T) {
	b := newBot(t)
	reg := tg.NewRegistry()
	var got []string
	_ = reg.RegisterCallback("stress", func(c tele.Context) error {
		answered(c)
		got = append(got, c.Callback().Data)
		return nil
	})
	missing := 0
	reg.SetCallbackNotFound(func(c tele.Context) error {
		answered(c)
		missing++
		return nil
	})

	route := CallbackRoute(reg)
	if route.Endpoint != tele.OnCallback {
		t.Fatalf("endpoint = %v", route.Endpoint)
	}
	for i, data := range []string{"stress", "stress_plus_Nyx", "bogus_x"} {
		c := b.NewContext(tele.Update{ID: i + 1, Callback: &tele.Callback{
			Sender: &tele.User{ID: 1},
			Data:   data,
		}})
		if err := route.Handler(c); err != nil {
			t.Fatalf("handler(%q): %v", data, err)
		}
	}
	if len(got) != 2 || got[1] != "stress_plus_Nyx" || missing != 1 {
		t.Fatalf("got=%v missing=%d", got, missing)
	}
}

func TestCommandRoutes(t *testing.T) {
	reg := tg.NewRegistry()
	_ = reg.RegisterCommand("/help", commands.Command{Handler: func(tele.Context) error { return nil }, Description: "Help", Aliases: []string{"h"}})
	_ = reg.RegisterCommand("/reset", commands.Command{Handler: func(tele.Context) error { return nil }, AdminOnly: true, Hidden: true})

	routes := CommandRoutes(reg, CommandOptions{AdminID: 1})
	endpoints := map[any]bool{}
	for _, r := range routes {
		endpoints[r.Endpoint] = true
	}
	for _, want := range []string{"/help", "/h", "/reset"} {
		if !endpoints[want] {
			t.Fatalf("missing route %s in %v", want, endpoints)
		}
	}
}

func TestTextRoute(t *testing.T) {
	b := newBot(t)
	reg := tg.NewRegistry()
	ran, unknown := 0, 0
	_ = reg.RegisterCommand("/roll", commands.Command{Handler: func(tele.Context) error { ran++; return nil }, Description: "Roll"})
	reg.SetUnknownCommand(func(tele.Context) error { unknown++; return nil })
	route := TextRoute(reg, "potzbot")

	for i, text := range []string{"/Roll", "hello", "/dance", "/dance@otherbot", "/ROLL@PotzBot 3"} {
		c := b.NewContext(tele.Update{ID: i + 1, Message: &tele.Message{
			Sender: &tele.User{ID: 1},
			Chat:   &tele.Chat{ID: 1},
			Text:   text,
		}})
		if err := route.Handler(c); err != nil {
			t.Fatal(err)
		}
	}
	if ran != 2 || unknown != 1 {
		t.Fatalf("ran=%d unknown=%d, want 2/1", ran, unknown)
	}
}

func TestHandlerName(t *testing.T) {
	if got := handlerName("cmd.", "/Add_Hero"); got != "cmd.add_hero" {
		t.Fatalf("handlerName = %q", got)
	}
	if got := handlerName("callback.", ""); got != "callback.unknown" {
		t.Fatalf("handlerName = %q", got)
	}
}
