package session

import "slices"

// SetTurnOrder replaces the play order and restarts it at the first hero.
// Names are stored as spelled in the roster and each hero appears once.
func (s *Session) SetTurnOrder(names []string) error {
	order := make([]string, 0, len(names))
	for _, n := range names {
		h, ok := s.Hero(n)
		if !ok {
			return ErrHeroNotFound
		}
		if slices.Contains(order, h.Name) {
			return ErrDuplicateTurn
		}
		order = append(order, h.Name)
	}
	s.Turn = Turn{Order: order}
	return nil
}

// CurrentTurn returns the hero whose turn it is.
func (s *Session) CurrentTurn() (string, error) {
	if len(s.Turn.Order) == 0 {
		return "", ErrNoTurnOrder
	}
	return s.Turn.Order[s.Turn.Current], nil
}

// NextTurn advances the order, wrapping at the end.
func (s *Session) NextTurn() (prev, next string, err error) {
	if len(s.Turn.Order) == 0 {
		return "", "", ErrNoTurnOrder
	}
	prev = s.Turn.Order[s.Turn.Current]
	s.Turn.Current = (s.Turn.Current + 1) % len(s.Turn.Order)
	return prev, s.Turn.Order[s.Turn.Current], nil
}

// dropFromTurn removes every entry for name. The current hero keeps the turn
// when it stays in the order; otherwise the turn passes to the next entry.
func (s *Session) dropFromTurn(name string) {
	cur := s.Turn.Current
	kept := s.Turn.Order[:0]
	for i, n := range s.Turn.Order {
		if !SameName(n, name) {
			kept = append(kept, n)
			continue
		}
		if i < s.Turn.Current {
			cur--
		}
	}
	if cur < 0 || cur >= len(kept) {
		cur = 0
	}
	s.Turn = Turn{Order: kept, Current: cur}
}

// pruneParty drops turn, claim and item entries naming heroes that are not
// in the roster and respells the rest as the roster does. The turn stays with
// the current hero when it survives.
func (s *Session) pruneParty() {
	current := ""
	if c := s.Turn.Current; c >= 0 && c < len(s.Turn.Order) {
		if h, ok := s.Hero(s.Turn.Order[c]); ok {
			current = h.Name
		}
	}
	order := make([]string, 0, len(s.Turn.Order))
	for _, n := range s.Turn.Order {
		if h, ok := s.Hero(n); ok && !slices.Contains(order, h.Name) {
			order = append(order, h.Name)
		}
	}
	s.Turn = Turn{Order: order, Current: max(slices.Index(order, current), 0)}

	if s.Claims != nil {
		claims := make(map[string]int64, len(s.Claims))
		for hero, user := range s.Claims {
			if h, ok := s.Hero(hero); ok {
				claims[h.Name] = user
			}
		}
		s.Claims = nil
		if len(claims) > 0 {
			s.Claims = claims
		}
	}

	if s.Items != nil {
		items := make(map[string][]string, len(s.Items))
		for hero, list := range s.Items {
			h, ok := s.Hero(hero)
			if !ok {
				continue
			}
			for _, item := range list {
				if !slices.Contains(items[h.Name], item) {
					items[h.Name] = append(items[h.Name], item)
				}
			}
		}
		s.Items = nil
		if len(items) > 0 {
			s.Items = items
		}
	}
}

// ClaimedBy returns the hero claimed by user.
func (s *Session) ClaimedBy(user int64) (string, bool) {
	for hero, u := range s.Claims {
		if u == user {
			return hero, true
		}
	}
	return "", false
}

// ClaimResult describes the side effects of a claim.
type ClaimResult struct {
	Hero     string
	Cleared  bool   // someone else's claim on Hero was dropped
	Released string // the caller's previous hero, if any
}

// Claim binds hero to user. A hero has at most one claimant and a user claims
// at most one hero, so a competing claim and the caller's previous claim are
// both released.
func (s *Session) Claim(hero string, user int64) (ClaimResult, error) {
	h, ok := s.Hero(hero)
	if !ok {
		return ClaimResult{}, ErrHeroNotFound
	}
	res := ClaimResult{Hero: h.Name}
	if owner, ok := s.Claims[h.Name]; ok {
		if owner == user {
			return res, ErrAlreadyClaimed
		}
		res.Cleared = true
		delete(s.Claims, h.Name)
	}
	if prev, ok := s.ClaimedBy(user); ok {
		res.Released = prev
		delete(s.Claims, prev)
	}
	if s.Claims == nil {
		s.Claims = make(map[string]int64)
	}
	s.Claims[h.Name] = user
	return res, nil
}

// Unclaim releases the user's claim and returns the hero it was on.
func (s *Session) Unclaim(user int64) (string, bool) {
	hero, ok := s.ClaimedBy(user)
	if ok {
		delete(s.Claims, hero)
	}
	return hero, ok
}

// HeroItems returns a copy of the hero's items.
func (s *Session) HeroItems(hero string) []string {
	if h, ok := s.Hero(hero); ok {
		hero = h.Name
	}
	return slices.Clone(s.Items[hero])
}

// AddItem gives item to a roster hero.
func (s *Session) AddItem(hero, item string) error {
	h, ok := s.Hero(hero)
	if !ok {
		return ErrHeroNotFound
	}
	if slices.Contains(s.Items[h.Name], item) {
		return ErrItemExists
	}
	if s.Items == nil {
		s.Items = make(map[string][]string)
	}
	s.Items[h.Name] = append(s.Items[h.Name], item)
	return nil
}

// DiscardItem takes item away from a roster hero.
func (s *Session) DiscardItem(hero, item string) error {
	h, ok := s.Hero(hero)
	if !ok {
		return ErrHeroNotFound
	}
	list := s.Items[h.Name]
	i := slices.Index(list, item)
	if i < 0 {
		return ErrItemMissing
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(s.Items, h.Name)
	} else {
		s.Items[h.Name] = list
	}
	return nil
}
