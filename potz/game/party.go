package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/potzbot/core/logger"
	"github.com/m3rciful/potzbot/potz/session"
)

// Turn handles /turn [get|set <hero>...|next].
func (e *Engine) Turn(ctx context.Context, s *session.Session, args []string) Reply {
	sub := "get"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	switch sub {
	case "get":
		hero, err := s.CurrentTurn()
		if err != nil {
			return Reply{Text: TextNoTurnOrder}
		}
		return Reply{Text: turnIs(e.Spell(hero))}
	case "set":
		if len(args) == 0 {
			return Reply{Text: UsageTurnSet}
		}
		if err := s.SetTurnOrder(args); err != nil {
			if errors.Is(err, session.ErrDuplicateTurn) {
				return Reply{Text: TextTurnDuplicate}
			}
			for _, name := range args {
				if _, ok := s.Hero(name); !ok {
					return Reply{Text: heroNotFound(e.Spell(name))}
				}
			}
			return Reply{Text: err.Error()}
		}
		logger.Debug(ctx, component, "turn.set", slog.Int("count", len(s.Turn.Order)))
		return Reply{Text: turnOrderSet(e.spellAll(s.Turn.Order))}
	case "next":
		prev, next, err := s.NextTurn()
		if err != nil {
			return Reply{Text: TextNoTurnOrder}
		}
		logger.Debug(ctx, component, "turn.next", slog.String("from", prev), slog.String("to", next))
		return Reply{Text: turnPassed(e.Spell(prev), e.Spell(next))}
	}
	return Reply{Text: notOneOf(sub, "get", "set", "next")}
}

func (e *Engine) spellAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = e.Spell(n)
	}
	return out
}

// Claim handles /claim <hero> for the calling user.
func (e *Engine) Claim(ctx context.Context, s *session.Session, user int64, args []string) Reply {
	if len(args) != 1 {
		return Reply{Text: UsageClaim}
	}
	res, err := s.Claim(args[0], user)
	switch {
	case errors.Is(err, session.ErrHeroNotFound):
		return Reply{Text: heroNotFound(e.Spell(args[0]))}
	case errors.Is(err, session.ErrAlreadyClaimed):
		return Reply{Text: alreadyClaimed(e.Spell(res.Hero))}
	case err != nil:
		return Reply{Text: err.Error()}
	}
	var lines []string
	if res.Cleared {
		lines = append(lines, claimCleared(e.Spell(res.Hero)))
	}
	if res.Released != "" {
		lines = append(lines, unclaimed(e.Spell(res.Released)))
	}
	lines = append(lines, claimed(e.Spell(res.Hero)))
	logger.Debug(ctx, component, "hero.claimed", slog.String("hero", res.Hero), slog.Bool("cleared", res.Cleared))
	return Reply{Text: strings.Join(lines, "\n")}
}

// Unclaim handles /unclaim for the calling user.
func (e *Engine) Unclaim(ctx context.Context, s *session.Session, user int64) Reply {
	hero, ok := s.Unclaim(user)
	if !ok {
		return Reply{Text: TextNoClaim}
	}
	logger.Debug(ctx, component, "hero.unclaimed", slog.String("hero", hero))
	return Reply{Text: unclaimed(e.Spell(hero))}
}

// Items handles /items [hero] [hand|add|discard] [item]. The hero defaults
// to the one the caller claimed.
func (e *Engine) Items(ctx context.Context, s *session.Session, user int64, args []string) Reply {
	var hero string
	if len(args) > 0 {
		if h, ok := s.Hero(args[0]); ok {
			hero = h.Name
			args = args[1:]
		}
	}
	if hero == "" {
		claimedHero, ok := s.ClaimedBy(user)
		if !ok {
			return Reply{Text: TextItemsNoHero}
		}
		hero = claimedHero
	}
	sub := "hand"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	query := strings.Join(args, " ")
	switch sub {
	case "hand":
		held := s.HeroItems(hero)
		if len(held) == 0 {
			return Reply{Text: noItems(e.Spell(hero))}
		}
		return Reply{Text: itemList(e.Spell(hero), held)}
	case "add":
		if query == "" {
			return Reply{Text: UsageItemsAdd}
		}
		item, ok := e.ResolveItem(query)
		if !ok {
			return Reply{Text: itemNotInCatalog(query)}
		}
		if err := s.AddItem(hero, item); errors.Is(err, session.ErrItemExists) {
			return Reply{Text: itemHeld(e.Spell(hero), item)}
		} else if err != nil {
			return Reply{Text: err.Error()}
		}
		logger.Debug(ctx, component, "item.added", slog.String("hero", hero), slog.String("item", item))
		return Reply{Text: itemAdded(e.Spell(hero), item)}
	case "discard":
		if query == "" {
			return Reply{Text: UsageItemsDrop}
		}
		item, ok := e.ResolveItem(query)
		if !ok {
			return Reply{Text: itemNotInCatalog(query)}
		}
		if err := s.DiscardItem(hero, item); errors.Is(err, session.ErrItemMissing) {
			return Reply{Text: itemMissing(e.Spell(hero), item)}
		} else if err != nil {
			return Reply{Text: err.Error()}
		}
		logger.Debug(ctx, component, "item.discarded", slog.String("hero", hero), slog.String("item", item))
		return Reply{Text: itemRemoved(e.Spell(hero), item)}
	}
	return Reply{Text: notOneOf(sub, "hand", "add", "discard")}
}

// ResolveItem returns the first catalog entry whose folded name contains the
// folded query.
func (e *Engine) ResolveItem(query string) (string, bool) {
	q := session.Fold(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, it := range e.items {
		if strings.Contains(session.Fold(it), q) {
			return it, true
		}
	}
	return "", false
}
