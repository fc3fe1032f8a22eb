package fetch

import (
	"context"
	"sync"
)

// Token identifies one load issued through Generations.
type Token uint64

// Generations orders the loads of a single view. Beginning a load cancels the
// one before it, and only the newest load is allowed to commit its result.
// The zero value is ready to use.
type Generations struct {
	mu      sync.Mutex
	current uint64
	cancel  context.CancelFunc
}

// Begin starts a new load derived from ctx and returns its token.
func (g *Generations) Begin(ctx context.Context) (context.Context, Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	g.current++
	g.cancel = cancel
	return ctx, Token(g.current)
}

// Commit calls apply only when tok is still the newest token, and reports
// whether it did. apply runs under the lock, so commits never interleave.
func (g *Generations) Commit(tok Token, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if uint64(tok) != g.current {
		return false
	}
	apply()
	return true
}

// Current reports whether tok is the newest token.
func (g *Generations) Current(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uint64(tok) == g.current
}

// Stop cancels the in-flight load, if any.
func (g *Generations) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
