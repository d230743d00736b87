package tenant

import (
	"context"
	"fmt"
	"sync"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
)

// Opener establishes the data handle for one tenant. Production wires
// OpenPostgres; tests inject sqlite or failing openers.
type Opener func(ctx context.Context, t models.Tenant) (*store.Store, error)

// Pool caches one data handle per tenant key for the life of the
// process. Concurrent first calls for the same unseen key coalesce
// into a single connection attempt; a failed attempt is not cached, so
// the next call retries.
type Pool struct {
	registry *Registry
	open     Opener
	log      *logger.Logger

	mu       sync.Mutex
	handles  map[string]*store.Store
	inflight map[string]*connectAttempt
}

type connectAttempt struct {
	done   chan struct{}
	handle *store.Store
	err    error
}

func NewPool(registry *Registry, open Opener, log *logger.Logger) *Pool {
	return &Pool{
		registry: registry,
		open:     open,
		log:      log,
		handles:  make(map[string]*store.Store),
		inflight: make(map[string]*connectAttempt),
	}
}

// Handle returns the cached handle for the tenant, establishing it on
// first use.
func (p *Pool) Handle(ctx context.Context, key string) (*store.Store, error) {
	p.mu.Lock()
	if h, ok := p.handles[key]; ok {
		p.mu.Unlock()
		return h, nil
	}
	if attempt, ok := p.inflight[key]; ok {
		p.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.handle, attempt.err
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for tenant %q handle: %w", key, ctx.Err())
		}
	}

	t, err := p.registry.Lookup(key)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}

	attempt := &connectAttempt{done: make(chan struct{})}
	p.inflight[key] = attempt
	p.mu.Unlock()

	handle, err := p.open(ctx, t)
	if err != nil {
		handle = nil
		err = domain.TenantConnectionError{Key: key, Err: err}
		if p.log != nil {
			p.log.Error("TENANT", err.Error())
		}
	}

	p.mu.Lock()
	delete(p.inflight, key)
	if err == nil {
		p.handles[key] = handle
		if p.log != nil {
			p.log.LogTenant(key, "data handle established")
		}
	}
	p.mu.Unlock()

	attempt.handle = handle
	attempt.err = err
	close(attempt.done)

	return handle, err
}

// Reset closes and drops every cached handle. Cached handles normally
// live for the whole process; tests use this to avoid leaking state
// across cases.
func (p *Pool) Reset() {
	p.mu.Lock()
	handles := p.handles
	p.handles = make(map[string]*store.Store)
	p.mu.Unlock()

	for key, h := range handles {
		if err := h.Close(); err != nil && p.log != nil {
			p.log.Warn("TENANT", fmt.Sprintf("[%s] closing handle: %v", key, err))
		}
	}
}
