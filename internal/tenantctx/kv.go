package tenantctx

import (
	"context"
	"fmt"
	"sync"

	id "a2admin/pkg/domain"
)

// Keys of the persisted override.
const (
	KeyActiveTenantID   = "activeTenantId"
	KeyActiveTenantName = "activeTenantName"
)

// KV is the per-device persistence of the override.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// OverrideStore reads and writes the override of one session namespace.
type OverrideStore struct {
	kv        KV
	namespace string
}

func NewOverrideStore(kv KV, namespace string) *OverrideStore {
	return &OverrideStore{kv: kv, namespace: namespace}
}

func (s *OverrideStore) key(name string) string {
	return s.namespace + ":" + name
}

// Load returns nil when no usable override is stored.
func (s *OverrideStore) Load(ctx context.Context) (*Override, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(KeyActiveTenantID))
	if err != nil {
		return nil, fmt.Errorf("load override: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	tenantID, err := id.ParseTenantID(raw)
	if err != nil || tenantID.IsNil() {
		return nil, nil
	}
	name, _, err := s.kv.Get(ctx, s.key(KeyActiveTenantName))
	if err != nil {
		return nil, fmt.Errorf("load override: %w", err)
	}
	return &Override{TenantID: tenantID, TenantName: name}, nil
}

func (s *OverrideStore) Save(ctx context.Context, o Override) error {
	if err := s.kv.Set(ctx, s.key(KeyActiveTenantID), o.TenantID.String()); err != nil {
		return fmt.Errorf("save override: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(KeyActiveTenantName), o.TenantName); err != nil {
		return fmt.Errorf("save override: %w", err)
	}
	return nil
}

// Clear removes both keys; it attempts the second even if the first fails.
func (s *OverrideStore) Clear(ctx context.Context) error {
	errID := s.kv.Remove(ctx, s.key(KeyActiveTenantID))
	errName := s.kv.Remove(ctx, s.key(KeyActiveTenantName))
	if errID != nil {
		return fmt.Errorf("clear override: %w", errID)
	}
	if errName != nil {
		return fmt.Errorf("clear override: %w", errName)
	}
	return nil
}
