package tenant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-reservation/internal/config"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/store"
)

// Operation is one tenant-scoped unit of work in a fan-out.
type Operation func(ctx context.Context, tenantKey string, h *store.Store) (interface{}, error)

// TenantResult is one entry of a fan-out result, positioned at its
// tenant's registry index regardless of completion order.
type TenantResult struct {
	TenantKey string
	Value     interface{}
	Err       error
}

// Executor runs one operation against every tenant in the registry.
// Failures are captured per tenant entry; RunForAll itself never
// fails, the caller inspects each entry.
type Executor struct {
	registry    *Registry
	pool        *Pool
	log         *logger.Logger
	concurrency int
	timeout     time.Duration
}

func NewExecutor(registry *Registry, pool *Pool, log *logger.Logger, cfg config.FanoutConfig) *Executor {
	return &Executor{
		registry:    registry,
		pool:        pool,
		log:         log,
		concurrency: cfg.Concurrency,
		timeout:     cfg.TenantTimeout,
	}
}

// RunForAll scatters op across all tenants with bounded concurrency
// and gathers the outcomes in registry order. Every tenant is
// attempted even when earlier ones fail; a slow tenant is cut off by
// the per-tenant timeout instead of stalling the aggregate.
func (e *Executor) RunForAll(ctx context.Context, op Operation) []TenantResult {
	tenants := e.registry.Tenants()
	results := make([]TenantResult, len(tenants))
	if len(tenants) == 0 {
		return results
	}

	workers := e.concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(tenants) {
		workers = len(tenants)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				key := tenants[i].Key
				value, err := e.runOne(ctx, key, op)
				results[i] = TenantResult{TenantKey: key, Value: value, Err: err}
				if err != nil && e.log != nil {
					e.log.Warn("FANOUT", fmt.Sprintf("[%s] %v", key, err))
				}
			}
		}()
	}

	for i := range tenants {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

func (e *Executor) runOne(ctx context.Context, key string, op Operation) (interface{}, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type outcome struct {
		value interface{}
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("tenant %q: operation panicked: %v", key, r)}
			}
		}()
		h, err := e.pool.Handle(ctx, key)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		value, err := op(ctx, key, h)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		// The operation goroutine keeps running until its data-access
		// call notices the context; its buffered send cannot leak it.
		return nil, fmt.Errorf("tenant %q: %w", key, ctx.Err())
	}
}
