// Package guid generates unique string identifiers that are safe to use as keys.
package guid

import (
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique identifiers.
// Implemented by UUIDv7 (production) and Sequence (tests).
type Generator interface {
	Generate() string
}

// UUIDv7 generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a millisecond timestamp in its most significant bits, so keys
// generated later sort after keys generated earlier.
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// Generate returns a new hyphenated UUIDv7, for example
// "01890a5d-ac96-774b-bcce-b302099a8057".
//
// Panics if the system random source fails.
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sequence returns predetermined identifiers for deterministic tests.
type Sequence struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequence creates a generator that returns ids in order.
func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

// Generate returns the next id. Panics once all ids are consumed, which
// means the test asked for more ids than it configured.
func (s *Sequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.ids) {
		panic("guid.Sequence: all ids exhausted")
	}
	id := s.ids[s.idx]
	s.idx++
	return id
}
