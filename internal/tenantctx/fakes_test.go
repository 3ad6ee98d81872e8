package tenantctx

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

// fakeRoles answers role lookups from a map. When gate is set, lookups block
// until it is closed or their context ends.
type fakeRoles struct {
	mu       sync.Mutex
	scopes   map[id.PrincipalID]*NativeScope
	err      error
	panicMsg string
	gate     chan struct{}
	calls    int
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{scopes: make(map[id.PrincipalID]*NativeScope)}
}

func (f *fakeRoles) set(principalID id.PrincipalID, scope *NativeScope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes[principalID] = scope
}

func (f *fakeRoles) block() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *fakeRoles) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRoles) LookupNative(ctx context.Context, principalID id.PrincipalID) (*NativeScope, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	scope, ok := f.scopes[principalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return scope, nil
}

type failingKV struct {
	*MemoryKV
	err error
}

func (k failingKV) Set(context.Context, string, string) error { return k.err }
func (k failingKV) Remove(context.Context, string) error      { return k.err }

var errKV = errors.New("storage unavailable")

func newPrincipal(email string) requestcontext.Principal {
	return requestcontext.Principal{ID: id.PrincipalID(uuid.New()), Email: email}
}

func superAdminScope() *NativeScope {
	return &NativeScope{Role: models.RoleSuperAdmin}
}

func clubAdminScope(tenantID id.TenantID, name string) *NativeScope {
	return &NativeScope{Role: models.RoleClubAdmin, TenantID: tenantID, TenantName: name}
}
