// Package session holds the per-chat game record and its mutation rules.
package session

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// MaxNameLen bounds hero and timer names in bytes so button payloads stay under
// Telegram's 64-byte callback data limit.
const MaxNameLen = 32

var (
	ErrInvalidName     = errors.New("session: invalid name")
	ErrNegative        = errors.New("session: negative value")
	ErrNotPositive     = errors.New("session: value must be positive")
	ErrHeroExists      = errors.New("session: hero already exists")
	ErrHeroNotFound    = errors.New("session: hero not found")
	ErrTimerExists     = errors.New("session: timer already exists")
	ErrTimerNotFound   = errors.New("session: timer not found")
	ErrNothingToRemove = errors.New("session: counter already at zero")
	ErrTimerExpired    = errors.New("session: timer already expired")
	ErrNoTurnOrder     = errors.New("session: turn order not set")
	ErrDuplicateTurn   = errors.New("session: hero listed twice in turn order")
	ErrAlreadyClaimed  = errors.New("session: already claimed by caller")
	ErrItemExists      = errors.New("session: item already held")
	ErrItemMissing     = errors.New("session: item not held")
)

// Hero is a tracked character with stress and harm counters.
type Hero struct {
	Name   string `json:"name"`
	Stress int    `json:"stress"`
	Harm   int    `json:"harm"`
}

// Timer counts down toward zero. At zero it is expired but kept.
type Timer struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Expired reports whether the timer has reached zero.
func (t Timer) Expired() bool { return t.Value <= 0 }

// Turn is the play order and the index of the hero whose turn it is.
type Turn struct {
	Order   []string `json:"order"`
	Current int      `json:"current"`
}

// Session is the whole persisted record for one chat.
type Session struct {
	State           State               `json:"state"`
	InlineMessageID int                 `json:"inline_message_id"`
	Heroes          []Hero              `json:"heroes"`
	Timers          []Timer             `json:"timers"`
	LastCalls       []int64             `json:"last_calls"`
	Turn            Turn                `json:"turn"`
	Claims          map[string]int64    `json:"claims,omitempty"`
	Items           map[string][]string `json:"items,omitempty"`
}

// New returns the default record: root menu, empty roster, no live message.
func New() *Session {
	return &Session{
		State:     StateRoot,
		Heroes:    []Hero{},
		Timers:    []Timer{},
		LastCalls: []int64{},
		Turn:      Turn{Order: []string{}},
	}
}

// normalize repairs a decoded record so the invariants hold.
func (s *Session) normalize() {
	if _, ok := ParseState(string(s.State)); !ok {
		s.State = StateRoot
	}
	if s.Heroes == nil {
		s.Heroes = []Hero{}
	}
	for i := range s.Heroes {
		s.Heroes[i].Stress = max(s.Heroes[i].Stress, 0)
		s.Heroes[i].Harm = max(s.Heroes[i].Harm, 0)
	}
	if s.Timers == nil {
		s.Timers = []Timer{}
	}
	for i := range s.Timers {
		s.Timers[i].Value = max(s.Timers[i].Value, 0)
	}
	if s.LastCalls == nil {
		s.LastCalls = []int64{}
	}
	s.pruneParty()
	if s.InlineMessageID < 0 {
		s.InlineMessageID = 0
	}
}

// Fold returns the case-folded form used to compare names.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// SameName compares two names under Unicode case folding.
func SameName(a, b string) bool { return Fold(a) == Fold(b) }

// ValidName reports whether name can be used for a hero or timer.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLen || strings.Contains(name, "_") {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}
