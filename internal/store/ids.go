package store

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// idGenerator hands out ULIDs that sort in creation order, even when two
// tasks share a millisecond.
type idGenerator struct {
	mu      sync.Mutex
	entropy io.Reader // monotonic, guarded by mu
}

func newIDGenerator() *idGenerator {
	return &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *idGenerator) next(at time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// notBefore keeps UpdatedAt from going behind CreatedAt when the wall clock
// steps back between two saves.
func notBefore(now, createdAt time.Time) time.Time {
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}
