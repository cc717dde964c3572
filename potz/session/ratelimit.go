package session

import "time"

// AllowCall records a call at now unless maxCalls calls already happened inside
// window. The history never holds more than maxCalls entries. A non-positive
// maxCalls disables limiting and clears the history.
func (s *Session) AllowCall(now time.Time, maxCalls int, window time.Duration) bool {
	if maxCalls <= 0 {
		s.LastCalls = s.LastCalls[:0]
		return true
	}
	cutoff := now.Add(-window).Unix()
	kept := s.LastCalls[:0]
	for _, ts := range s.LastCalls {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	if len(kept) > maxCalls {
		kept = kept[len(kept)-maxCalls:]
	}
	s.LastCalls = kept
	if len(kept) >= maxCalls {
		return false
	}
	s.LastCalls = append(s.LastCalls, now.Unix())
	return true
}
