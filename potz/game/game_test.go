package game

import (
	"context"
	"strings"
	"testing"

	"github.com/m3rciful/potzbot/potz/dice"
	"github.com/m3rciful/potzbot/potz/session"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{
		Roller:   dice.NewRoller(1),
		Items:    []string{"Rope", "Lantern", "Iron Key", " "},
		Spelling: map[string]string{"NYX": "Nyx"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestAddHeroReplies(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		args   []string
		want   string
		render bool
	}{
		{name: "no args", args: nil, want: UsageAddHero},
		{name: "too many", args: []string{"a", "1", "2", "3"}, want: UsageAddHero},
		{name: "not numbers", args: []string{"Nyx", "two"}, want: TextCountersNotNumbers},
		{name: "negative", args: []string{"Nyx", "-1"}, want: TextCountersNegative},
		{name: "underscore", args: []string{"Ny_x"}, want: TextInvalidName},
		{name: "too long", args: []string{strings.Repeat("a", 33)}, want: TextInvalidName},
		{name: "ok", args: []string{"Nyx", "2", "1"}, want: "Hero Nyx added", render: true},
	}
	e := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New()
			got := e.AddHero(ctx, s, tt.args)
			if got.Text != tt.want || got.Render != tt.render {
				t.Fatalf("AddHero(%v) = %+v, want %q render=%v", tt.args, got, tt.want, tt.render)
			}
		})
	}
}

func TestDuplicateHeroLeavesRoster(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	e.AddHero(ctx, s, []string{"Nyx", "2", "1"})
	got := e.AddHero(ctx, s, []string{"nyx", "5"})
	if got.Text != "Hero Nyx already exists" {
		t.Fatalf("reply = %q", got.Text)
	}
	if len(s.Heroes) != 1 || s.Heroes[0] != (session.Hero{Name: "Nyx", Stress: 2, Harm: 1}) {
		t.Fatalf("roster changed: %+v", s.Heroes)
	}
}

func TestNyxScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()

	e.AddHero(ctx, s, []string{"Nyx", "2", "1"})
	got := e.Press(ctx, s, "stress_plus_Nyx")
	if !got.Render || s.Heroes[0].Stress != 3 {
		t.Fatalf("after stress_plus: %+v %+v", got, s.Heroes)
	}
	if got.Text != "Nyx now has 3 stress" {
		t.Fatalf("reply = %q", got.Text)
	}
	if s.State != session.StateRoot {
		t.Fatalf("action changed state to %s", s.State)
	}
	e.RemoveHero(ctx, s, []string{"Nyx"})
	if len(s.Heroes) != 0 {
		t.Fatalf("roster = %+v", s.Heroes)
	}
}

func TestBombScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()

	if got := e.AddTimer(ctx, s, []string{"Bomb", "3"}); got.Text != "Timer Bomb set to 3" {
		t.Fatalf("add: %q", got.Text)
	}
	e.Press(ctx, s, "timer_minus_Bomb")
	if got := e.Press(ctx, s, "timer_minus_Bomb"); got.Text != "Timer Bomb: 1" {
		t.Fatalf("second tick: %q", got.Text)
	}
	expiries := 0
	for range 3 {
		got := e.Press(ctx, s, "timer_minus_Bomb")
		if got.Text == "Timer Bomb expired!" {
			expiries++
		} else if got.Text != "Timer Bomb has already expired" {
			t.Fatalf("unexpected reply %q", got.Text)
		}
	}
	if expiries != 1 {
		t.Fatalf("expiry reported %d times", expiries)
	}
	if len(s.Timers) != 1 || s.Timers[0].Value != 0 {
		t.Fatalf("timers = %+v", s.Timers)
	}
	if got := e.Press(ctx, s, "timer_remove_Bomb"); got.Text != "Timer Bomb removed" || len(s.Timers) != 0 {
		t.Fatalf("remove: %q %+v", got.Text, s.Timers)
	}
}

func TestAddTimerReplies(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"Bomb"}, want: UsageAddTimer},
		{args: []string{"Bomb", "x"}, want: TextTimerNotNumber},
		{args: []string{"Bomb", "0"}, want: TextTimerNotPositive},
		{args: []string{"Bomb", "-2"}, want: TextTimerNotPositive},
		{args: []string{"Bo mb", "2"}, want: TextInvalidName},
	}
	for _, tt := range tests {
		s := session.New()
		if got := e.AddTimer(ctx, s, tt.args); got.Text != tt.want {
			t.Fatalf("AddTimer(%v) = %q, want %q", tt.args, got.Text, tt.want)
		}
	}
	s := session.New()
	e.AddTimer(ctx, s, []string{"Bomb", "2"})
	if got := e.AddTimer(ctx, s, []string{"BOMB", "4"}); got.Text != "Timer BOMB already exists" {
		t.Fatalf("duplicate: %q", got.Text)
	}
	if got := e.RemoveTimer(ctx, s, nil); got.Text != UsageRemoveTimer {
		t.Fatalf("remove usage: %q", got.Text)
	}
}

func TestDecrementAtZero(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	e.AddHero(ctx, s, []string{"Vex"})
	for _, p := range []string{"stress_minus_Vex", "harm_minus_Vex"} {
		got := e.Press(ctx, s, p)
		if got.Render {
			t.Fatalf("%s rendered on rejection", p)
		}
	}
	if got := e.Press(ctx, s, "harm_minus_Vex"); got.Text != "Vex has no harm to remove" {
		t.Fatalf("reply = %q", got.Text)
	}
	if h := s.Heroes[0]; h.Stress != 0 || h.Harm != 0 {
		t.Fatalf("counters went negative: %+v", h)
	}
	if got := e.Press(ctx, s, "harm_plus_Ghost"); got.Text != "Hero Ghost not found" {
		t.Fatalf("unknown hero: %q", got.Text)
	}
}

func TestPressNavigation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()

	if got := e.Press(ctx, s, "stress"); !got.Render || s.State != session.StateStress {
		t.Fatalf("root->stress: %+v state=%s", got, s.State)
	}
	if got := e.Press(ctx, s, "harm"); !got.Render || s.State != session.StateStress {
		t.Fatalf("stress->harm should be rejected, state=%s", s.State)
	}
	e.Press(ctx, s, "root")
	if s.State != session.StateRoot {
		t.Fatalf("state = %s", s.State)
	}
	for _, p := range []string{"bogus", "stress_up_Nyx", "roll_9", "roll_x", "timer_spin_Bomb", ""} {
		if got := e.Press(ctx, s, p); got.Text != TextUnknownAction {
			t.Fatalf("Press(%q) = %q", p, got.Text)
		}
	}
}

func TestRollPress(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	s.State = session.StateRoll
	for n := 0; n <= dice.MaxDice; n++ {
		got := e.Press(ctx, s, Payload(ActionRoll, string(rune('0'+n))))
		if !got.Render || !strings.HasPrefix(got.Text, "Rolled ") {
			t.Fatalf("roll_%d: %+v", n, got)
		}
	}
	if s.State != session.StateRoll {
		t.Fatalf("roll moved state to %s", s.State)
	}
}

func TestFormatPool(t *testing.T) {
	got := FormatPool(dice.Pool{Size: 3, Dice: []int{6, 2, 6}, Kept: 6, Outcome: dice.Critical})
	if got != "Rolled 3d6: 6 2 6\nHighest 6: critical success!" {
		t.Fatalf("FormatPool = %q", got)
	}
	got = FormatPool(dice.Pool{Size: 0, Dice: []int{5, 2}, Kept: 2, Outcome: dice.Failure})
	if got != "Rolled 2d6 keeping the lowest: 5 2\nLowest 2: failure" {
		t.Fatalf("FormatPool zero = %q", got)
	}
}

func TestOpenRoll(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	for _, from := range []session.State{session.StateRoot, session.StateStress, session.StateRoll} {
		s := session.New()
		s.State = from
		if got := e.OpenRoll(ctx, s); !got.Render || s.State != session.StateRoll {
			t.Fatalf("OpenRoll from %s ended in %s", from, s.State)
		}
	}
}

func TestTurn(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	if got := e.Turn(ctx, s, nil); got.Text != TextNoTurnOrder {
		t.Fatalf("empty: %q", got.Text)
	}
	if got := e.Turn(ctx, s, []string{"next"}); got.Text != TextNoTurnOrder {
		t.Fatalf("empty next: %q", got.Text)
	}
	e.AddHero(ctx, s, []string{"nyx"})
	e.AddHero(ctx, s, []string{"Vex"})
	if got := e.Turn(ctx, s, []string{"set", "nyx", "Ghost"}); got.Text != "Hero Ghost not found" {
		t.Fatalf("unknown: %q", got.Text)
	}
	if got := e.Turn(ctx, s, []string{"set", "nyx", "Vex", "NYX"}); got.Text != TextTurnDuplicate {
		t.Fatalf("duplicate: %q", got.Text)
	}
	if got := e.Turn(ctx, s, []string{"set"}); got.Text != UsageTurnSet {
		t.Fatalf("usage: %q", got.Text)
	}
	if got := e.Turn(ctx, s, []string{"set", "vex", "NYX"}); got.Text != "Turn order: Vex, Nyx" {
		t.Fatalf("set: %q", got.Text)
	}
	if got := e.Turn(ctx, s, nil); got.Text != "It is Vex's turn." {
		t.Fatalf("get: %q", got.Text)
	}
	e.Turn(ctx, s, []string{"next"})
	if got := e.Turn(ctx, s, []string{"next"}); got.Text != "Nyx's turn ended. It is now Vex's turn." {
		t.Fatalf("wrap: %q", got.Text)
	}
	if got := e.Turn(ctx, s, []string{"skip"}); got.Text != "skip is not one of get, set, next" {
		t.Fatalf("bad sub: %q", got.Text)
	}
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	e.AddHero(ctx, s, []string{"Nyx"})
	e.AddHero(ctx, s, []string{"Vex"})

	if got := e.Claim(ctx, s, 1, nil); got.Text != UsageClaim {
		t.Fatalf("usage: %q", got.Text)
	}
	if got := e.Claim(ctx, s, 1, []string{"Ghost"}); got.Text != "Hero Ghost not found" {
		t.Fatalf("unknown: %q", got.Text)
	}
	if got := e.Claim(ctx, s, 1, []string{"Nyx"}); got.Text != "Nyx claimed" {
		t.Fatalf("claim: %q", got.Text)
	}
	if got := e.Claim(ctx, s, 1, []string{"nyx"}); got.Text != "You've already claimed Nyx" {
		t.Fatalf("again: %q", got.Text)
	}
	if got := e.Claim(ctx, s, 2, []string{"Nyx"}); got.Text != "Nyx claim cleared\nNyx claimed" {
		t.Fatalf("steal: %q", got.Text)
	}
	if got := e.Claim(ctx, s, 2, []string{"Vex"}); got.Text != "Nyx unclaimed\nVex claimed" {
		t.Fatalf("switch: %q", got.Text)
	}
	if got := e.Unclaim(ctx, s, 1); got.Text != TextNoClaim {
		t.Fatalf("unclaim none: %q", got.Text)
	}
	if got := e.Unclaim(ctx, s, 2); got.Text != "Vex unclaimed" {
		t.Fatalf("unclaim: %q", got.Text)
	}
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	e.AddHero(ctx, s, []string{"Nyx"})

	if got := e.Items(ctx, s, 7, nil); got.Text != TextItemsNoHero {
		t.Fatalf("no hero: %q", got.Text)
	}
	e.Claim(ctx, s, 7, []string{"Nyx"})
	tests := []struct {
		args []string
		want string
	}{
		{args: nil, want: "Nyx has no items"},
		{args: []string{"add"}, want: UsageItemsAdd},
		{args: []string{"add", "rop"}, want: "Nyx added Rope"},
		{args: []string{"Nyx", "add", "ROPE"}, want: "Nyx already has Rope"},
		{args: []string{"add", "iron", "key"}, want: "Nyx added Iron Key"},
		{args: []string{"add", "sword"}, want: "Could not find sword in the item list"},
		{args: []string{"hand"}, want: "Nyx carries: Rope, Iron Key"},
		{args: []string{"discard", "lantern"}, want: "Nyx does not have Lantern"},
		{args: []string{"discard", "rope"}, want: "Nyx removed Rope"},
		{args: []string{"discard"}, want: UsageItemsDrop},
		{args: []string{"juggle"}, want: "juggle is not one of hand, add, discard"},
	}
	for _, tt := range tests {
		if got := e.Items(ctx, s, 7, tt.args); got.Text != tt.want {
			t.Fatalf("Items(%v) = %q, want %q", tt.args, got.Text, tt.want)
		}
	}
}

func TestRemoveHeroCascade(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	e.AddHero(ctx, s, []string{"Nyx"})
	e.AddHero(ctx, s, []string{"Vex"})
	e.Turn(ctx, s, []string{"set", "Nyx", "Vex"})
	e.Claim(ctx, s, 1, []string{"Nyx"})
	e.Items(ctx, s, 1, []string{"add", "rope"})

	e.RemoveHero(ctx, s, []string{"nyx"})
	if len(s.Turn.Order) != 1 || s.Turn.Order[0] != "Vex" {
		t.Fatalf("turn = %+v", s.Turn)
	}
	if len(s.Claims) != 0 || len(s.Items) != 0 {
		t.Fatalf("claims=%v items=%v", s.Claims, s.Items)
	}
	if got := e.RemoveHero(ctx, s, []string{"Nyx"}); got.Text != "Hero Nyx not found" {
		t.Fatalf("second remove: %q", got.Text)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	s := session.New()
	if got := e.Summary(s); got != TextEmpty {
		t.Fatalf("empty = %q", got)
	}
	e.AddHero(ctx, s, []string{"nyx", "2", "1"})
	e.AddTimer(ctx, s, []string{"Bomb", "1"})
	e.Press(ctx, s, "timer_minus_Bomb")
	want := "Heroes:\nNyx: stress 2, harm 1\n\nTimers:\nBomb: expired"
	if got := e.Summary(s); got != want {
		t.Fatalf("root summary = %q, want %q", got, want)
	}
	s.State = session.StateHarm
	if got := e.Summary(s); !strings.HasPrefix(got, TextPickHarm) {
		t.Fatalf("harm summary = %q", got)
	}
	s.State = session.StateRoll
	if got := e.Summary(s); got != TextPickDice {
		t.Fatalf("roll summary = %q", got)
	}
}

func TestRoll20(t *testing.T) {
	got := newEngine(t).Roll20(context.Background())
	if !strings.HasPrefix(got.Text, "Rolling... ") {
		t.Fatalf("Roll20 = %q", got.Text)
	}
}
