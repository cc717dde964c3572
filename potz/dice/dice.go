// Package dice rolls d6 pools and reads them on the action ladder.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
)

// MaxDice is the largest pool the roll keyboard offers.
const MaxDice = 5

// ErrInvalidPool is returned for pool sizes outside 0..MaxDice.
var ErrInvalidPool = errors.New("dice: pool size out of range")

// Outcome is the ladder reading of a pool.
type Outcome string

const (
	Critical Outcome = "critical"
	Success  Outcome = "success"
	Partial  Outcome = "partial"
	Failure  Outcome = "failure"
)

// Pool is one rolled pool.
type Pool struct {
	Size    int   // requested dice; 0 means two dice keeping the lowest
	Dice    []int // faces in roll order
	Kept    int   // the die the outcome is read from
	Outcome Outcome
}

// Roller is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller returns a deterministic roller for the given seed.
func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSeededRoller returns a roller seeded from crypto/rand.
func NewSeededRoller() (*Roller, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewRoller(seed), nil
}

func (r *Roller) die(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

// Roll rolls a pool of n d6. n == 0 rolls two dice and keeps the lowest.
func (r *Roller) Roll(n int) (Pool, error) {
	if n < 0 || n > MaxDice {
		return Pool{}, ErrInvalidPool
	}
	count := n
	if n == 0 {
		count = 2
	}
	faces := make([]int, count)
	for i := range faces {
		faces[i] = r.die(6)
	}
	kept, outcome := Read(n, faces)
	return Pool{Size: n, Dice: faces, Kept: kept, Outcome: outcome}, nil
}

// D20 rolls a single twenty-sided die.
func (r *Roller) D20() int { return r.die(20) }

// Read applies the ladder to faces rolled for a pool of size n. Two or more
// sixes in a non-zero pool is critical; otherwise the kept die decides:
// 6 success, 4-5 partial, 1-3 failure.
func Read(n int, faces []int) (int, Outcome) {
	if len(faces) == 0 {
		return 0, Failure
	}
	if n == 0 {
		kept := slices.Min(faces)
		return kept, ladder(kept)
	}
	sixes := 0
	for _, f := range faces {
		if f == 6 {
			sixes++
		}
	}
	kept := slices.Max(faces)
	if sixes >= 2 {
		return kept, Critical
	}
	return kept, ladder(kept)
}

func ladder(face int) Outcome {
	switch {
	case face >= 6:
		return Success
	case face >= 4:
		return Partial
	default:
		return Failure
	}
}
