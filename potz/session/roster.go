package session

import "slices"

// Counter selects which hero counter an adjustment applies to.
type Counter string

const (
	CounterStress Counter = "stress"
	CounterHarm   Counter = "harm"
)

func (s *Session) heroIndex(name string) int {
	f := Fold(name)
	return slices.IndexFunc(s.Heroes, func(h Hero) bool { return Fold(h.Name) == f })
}

func (s *Session) timerIndex(name string) int {
	f := Fold(name)
	return slices.IndexFunc(s.Timers, func(t Timer) bool { return Fold(t.Name) == f })
}

// Hero looks a hero up by name.
func (s *Session) Hero(name string) (Hero, bool) {
	if i := s.heroIndex(name); i >= 0 {
		return s.Heroes[i], true
	}
	return Hero{}, false
}

// Timer looks a timer up by name.
func (s *Session) Timer(name string) (Timer, bool) {
	if i := s.timerIndex(name); i >= 0 {
		return s.Timers[i], true
	}
	return Timer{}, false
}

// AddHero appends a hero. The roster is unchanged on error.
func (s *Session) AddHero(name string, stress, harm int) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if stress < 0 || harm < 0 {
		return ErrNegative
	}
	if s.heroIndex(name) >= 0 {
		return ErrHeroExists
	}
	s.Heroes = append(s.Heroes, Hero{Name: name, Stress: stress, Harm: harm})
	return nil
}

// RemoveHero deletes a hero and every reference to it in turn order, claims and items.
func (s *Session) RemoveHero(name string) (Hero, error) {
	i := s.heroIndex(name)
	if i < 0 {
		return Hero{}, ErrHeroNotFound
	}
	h := s.Heroes[i]
	s.Heroes = slices.Delete(s.Heroes, i, i+1)
	s.dropFromTurn(h.Name)
	delete(s.Claims, h.Name)
	delete(s.Items, h.Name)
	return h, nil
}

// AdjustHero adds delta to the chosen counter. A counter never goes below zero:
// a decrement at zero fails with ErrNothingToRemove.
func (s *Session) AdjustHero(name string, c Counter, delta int) (Hero, error) {
	i := s.heroIndex(name)
	if i < 0 {
		return Hero{}, ErrHeroNotFound
	}
	h := &s.Heroes[i]
	field := &h.Stress
	if c == CounterHarm {
		field = &h.Harm
	}
	if *field+delta < 0 {
		return *h, ErrNothingToRemove
	}
	*field += delta
	return *h, nil
}

// AddTimer appends a timer with a positive start value.
func (s *Session) AddTimer(name string, value int) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if value <= 0 {
		return ErrNotPositive
	}
	if s.timerIndex(name) >= 0 {
		return ErrTimerExists
	}
	s.Timers = append(s.Timers, Timer{Name: name, Value: value})
	return nil
}

// RemoveTimer deletes a timer, expired or not.
func (s *Session) RemoveTimer(name string) (Timer, error) {
	i := s.timerIndex(name)
	if i < 0 {
		return Timer{}, ErrTimerNotFound
	}
	t := s.Timers[i]
	s.Timers = slices.Delete(s.Timers, i, i+1)
	return t, nil
}

// TickTimer decrements a timer by one. expired is true only on the tick that
// reaches zero; ticking an expired timer fails with ErrTimerExpired and
// leaves it at zero.
func (s *Session) TickTimer(name string) (t Timer, expired bool, err error) {
	i := s.timerIndex(name)
	if i < 0 {
		return Timer{}, false, ErrTimerNotFound
	}
	tm := &s.Timers[i]
	if tm.Expired() {
		return *tm, false, ErrTimerExpired
	}
	tm.Value--
	return *tm, tm.Expired(), nil
}
