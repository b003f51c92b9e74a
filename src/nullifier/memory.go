package nullifier

import "sync"

// MemoryGuard keeps consumed nullifiers in process memory. Fine for tests
// and single-node dev; production uses BoltGuard so replays stay blocked
// across restarts.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

func (g *MemoryGuard) Seen(hash string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[hash]
	return ok, nil
}

func (g *MemoryGuard) Consume(hash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[hash]; ok {
		return ErrReplayed
	}
	g.seen[hash] = struct{}{}
	return nil
}
