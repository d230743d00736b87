package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/models"
)

// Registry holds the tenant catalog. It is loaded once at startup and
// only changes on an explicit Reload; the catalog file's entry order
// is the stable registry order every fan-out iterates in.
type Registry struct {
	file string

	mu      sync.RWMutex
	tenants []models.Tenant
	byKey   map[string]models.Tenant
}

// LoadRegistry reads the JSON tenant catalog. A load failure here is
// fatal to any operation that needs the catalog.
func LoadRegistry(file string) (*Registry, error) {
	r := &Registry{file: file}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRegistry builds a registry from an in-memory catalog, preserving
// slice order. Used by the composition root and tests.
func NewRegistry(tenants []models.Tenant) (*Registry, error) {
	r := &Registry{}
	if err := r.replace(tenants); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the catalog file, replacing the catalog atomically.
func (r *Registry) Reload() error {
	if r.file == "" {
		return fmt.Errorf("registry has no catalog file")
	}
	raw, err := os.ReadFile(r.file)
	if err != nil {
		return fmt.Errorf("read tenant catalog: %w", err)
	}
	var tenants []models.Tenant
	if err := json.Unmarshal(raw, &tenants); err != nil {
		return fmt.Errorf("parse tenant catalog %s: %w", r.file, err)
	}
	return r.replace(tenants)
}

func (r *Registry) replace(tenants []models.Tenant) error {
	byKey := make(map[string]models.Tenant, len(tenants))
	for _, t := range tenants {
		if t.Key == "" || t.DSN == "" {
			return fmt.Errorf("tenant catalog entry missing key or dsn: %+v", t)
		}
		if _, dup := byKey[t.Key]; dup {
			return fmt.Errorf("duplicate tenant key %q in catalog", t.Key)
		}
		byKey[t.Key] = t
	}

	r.mu.Lock()
	r.tenants = append([]models.Tenant(nil), tenants...)
	r.byKey = byKey
	r.mu.Unlock()
	return nil
}

// Lookup resolves a tenant by key.
func (r *Registry) Lookup(key string) (models.Tenant, error) {
	r.mu.RLock()
	t, ok := r.byKey[key]
	r.mu.RUnlock()
	if !ok {
		return models.Tenant{}, domain.TenantNotFoundError{Key: key}
	}
	return t, nil
}

// Tenants returns the catalog in registry order.
func (r *Registry) Tenants() []models.Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Tenant(nil), r.tenants...)
}

// Keys returns the tenant keys in registry order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.tenants))
	for i, t := range r.tenants {
		keys[i] = t.Key
	}
	return keys
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants)
}
