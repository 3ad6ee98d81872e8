package tenantctx

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "a2admin/pkg/domain"
)

func newTestSessions(roles RoleLookup, kv KV) *Sessions {
	return NewSessions(kv, roles, WithResolverOptions(WithResolverLogger(slog.New(slog.DiscardHandler))))
}

func TestSessionsObserveEmitsEvents(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	club := newPrincipal("admin@fc.fr")
	other := newPrincipal("other@fc.fr")
	roles.set(club.ID, clubAdminScope(id.NewTenantID(), "FC"))
	roles.set(other.ID, clubAdminScope(id.NewTenantID(), "Other FC"))
	sessions := newTestSessions(roles, NewMemoryKV())

	r := sessions.Observe(ctx, device, club, "token-1")
	r.Wait()
	assert.Equal(t, 1, roles.callCount(), "first observation signs in")

	same := sessions.Observe(ctx, device, club, "token-1")
	same.Wait()
	assert.Same(t, r, same)
	assert.Equal(t, 1, roles.callCount(), "same token is not an event")

	sessions.Observe(ctx, device, club, "token-2").Wait()
	assert.Equal(t, 2, roles.callCount(), "new token is a refresh")

	switched := sessions.Observe(ctx, device, other, "token-3")
	switched.Wait()
	assert.Equal(t, 3, roles.callCount(), "different principal is a sign-in")
	assert.NotSame(t, r, switched, "each principal gets its own session on the device")
	assert.Equal(t, "Other FC", switched.Current().TenantName)
	assert.Equal(t, "FC", r.Current().TenantName)
}

func TestSessionsOverrideIsBoundToPrincipal(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	super := newPrincipal("root@a2display.fr")
	club := newPrincipal("admin@fc.fr")
	stranger := newPrincipal("nobody@fc.fr")
	home := id.NewTenantID()
	roles.set(super.ID, superAdminScope())
	roles.set(club.ID, clubAdminScope(home, "Home FC"))
	sessions := newTestSessions(roles, NewMemoryKV())

	r := sessions.Observe(ctx, device, super, "tok")
	r.Wait()
	_, err := r.SetOverride(ctx, id.NewTenantID(), "Club")
	require.NoError(t, err)

	clubRes := sessions.Observe(ctx, device, club, "other-tok")
	clubRes.Wait()
	assert.Equal(t, home, clubRes.Current().TenantID)
	assert.False(t, clubRes.Current().Impersonating)

	strangerRes := sessions.Observe(ctx, device, stranger, "stranger-tok")
	strangerRes.Wait()
	assert.Equal(t, ReasonRoleLookupFailed, strangerRes.Current().Reason)

	require.NoError(t, sessions.SignOut(ctx, stranger.ID, device))
	assert.True(t, r.Current().Impersonating, "another principal's sign-out keeps the override")
}

func TestSessionsAreIsolatedPerDevice(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	super := newPrincipal("root@a2display.fr")
	roles.set(super.ID, superAdminScope())
	sessions := newTestSessions(roles, NewMemoryKV())

	laptop := sessions.Observe(ctx, "laptop", super, "tok")
	phone := sessions.Observe(ctx, "phone", super, "tok")
	laptop.Wait()
	phone.Wait()

	_, err := laptop.SetOverride(ctx, id.NewTenantID(), "Club")
	require.NoError(t, err)

	assert.Equal(t, StateResolved, laptop.Current().State)
	assert.Equal(t, ReasonNoOverrideNoNativeTenant, phone.Current().Reason)
}

func TestSessionsSignOut(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	roles := newFakeRoles()
	super := newPrincipal("root@a2display.fr")
	roles.set(super.ID, superAdminScope())
	sessions := newTestSessions(roles, kv)

	r := sessions.Observe(ctx, device, super, "tok")
	r.Wait()
	_, err := r.SetOverride(ctx, id.NewTenantID(), "Club")
	require.NoError(t, err)

	require.NoError(t, sessions.SignOut(ctx, super.ID, device))

	assert.Equal(t, ReasonNoSession, r.Current().Reason)
	_, ok := sessions.Resolver(super.ID, device)
	assert.False(t, ok)
	o, err := sessions.Overrides(super.ID, device).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestSessionsSignOutWithoutLiveResolver(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	sessions := newTestSessions(newFakeRoles(), kv)
	super := newPrincipal("root@a2display.fr")
	require.NoError(t, sessions.Overrides(super.ID, device).Save(ctx, Override{TenantID: id.NewTenantID(), TenantName: "Club"}))

	require.NoError(t, sessions.SignOut(ctx, super.ID, device))

	o, err := sessions.Overrides(super.ID, device).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestSessionsPruneKeepsPersistedOverride(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	super := newPrincipal("root@a2display.fr")
	roles.set(super.ID, superAdminScope())
	sessions := newTestSessions(roles, NewMemoryKV())
	tenantID := id.NewTenantID()

	r := sessions.Observe(ctx, device, super, "tok")
	r.Wait()
	_, err := r.SetOverride(ctx, tenantID, "Club")
	require.NoError(t, err)

	assert.Equal(t, 0, sessions.Prune(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, sessions.Prune(time.Millisecond))
	_, ok := sessions.Resolver(super.ID, device)
	assert.False(t, ok)

	restored := sessions.Observe(ctx, device, super, "tok")
	assert.NotSame(t, r, restored)
	res := restored.Current()
	assert.Equal(t, tenantID, res.TenantID)
	assert.True(t, res.Impersonating)
}

func TestSessionsRunPrunerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sessions := newTestSessions(newFakeRoles(), NewMemoryKV())
	p := newPrincipal("a@b.fr")
	sessions.Observe(ctx, device, p, "tok").Wait()

	done := make(chan struct{})
	go func() {
		sessions.RunPruner(ctx, time.Millisecond, time.Nanosecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok := sessions.Resolver(p.ID, device)
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}
