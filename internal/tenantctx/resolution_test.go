package tenantctx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

func TestResolve(t *testing.T) {
	session := newPrincipal("admin@a2display.fr")
	native := id.NewTenantID()
	override := &Override{TenantID: id.NewTenantID(), TenantName: "FC Nantes"}

	tests := []struct {
		name     string
		session  *requestcontext.Principal
		override *Override
		lookup   Lookup
		want     Resolution
	}{
		{
			name:     "no session wins over a stored override",
			override: override,
			lookup:   Lookup{Native: clubAdminScope(native, "RC Lens")},
			want:     Resolution{State: StateNoTenant, Reason: ReasonNoSession},
		},
		{
			name:     "override wins over the native tenant",
			session:  &session,
			override: override,
			lookup:   Lookup{Native: clubAdminScope(native, "RC Lens")},
			want:     Resolution{State: StateResolved, TenantID: override.TenantID, TenantName: "FC Nantes", Impersonating: true},
		},
		{
			name:     "override wins over an in-flight lookup",
			session:  &session,
			override: override,
			lookup:   Lookup{InFlight: true},
			want:     Resolution{State: StateResolved, TenantID: override.TenantID, TenantName: "FC Nantes", Impersonating: true},
		},
		{
			name:    "pending lookup is loading",
			session: &session,
			lookup:  Lookup{InFlight: true},
			want:    Resolution{State: StateLoading},
		},
		{
			name:    "club admin resolves to the native tenant",
			session: &session,
			lookup:  Lookup{Native: clubAdminScope(native, "RC Lens")},
			want:    Resolution{State: StateResolved, TenantID: native, TenantName: "RC Lens"},
		},
		{
			name:    "super admin without override has no tenant",
			session: &session,
			lookup:  Lookup{Native: superAdminScope()},
			want:    Resolution{State: StateNoTenant, Reason: ReasonNoOverrideNoNativeTenant},
		},
		{
			name:    "lookup error",
			session: &session,
			lookup:  Lookup{Err: errors.New("timeout")},
			want:    Resolution{State: StateNoTenant, Reason: ReasonRoleLookupFailed},
		},
		{
			name:    "missing assignment",
			session: &session,
			want:    Resolution{State: StateNoTenant, Reason: ReasonRoleLookupFailed},
		},
		{
			name:    "club admin without tenant",
			session: &session,
			lookup:  Lookup{Native: &NativeScope{Role: models.RoleClubAdmin}},
			want:    Resolution{State: StateNoTenant, Reason: ReasonRoleLookupFailed},
		},
		{
			name:    "unknown role",
			session: &session,
			lookup:  Lookup{Native: &NativeScope{Role: models.Role("sponsor")}},
			want:    Resolution{State: StateNoTenant, Reason: ReasonRoleLookupFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.session, tt.override, tt.lookup))
		})
	}
}

func TestResolveImpersonationOnlyWithOverride(t *testing.T) {
	session := newPrincipal("club@fc.fr")
	tenantID := id.NewTenantID()

	viaNative := Resolve(&session, nil, Lookup{Native: clubAdminScope(tenantID, "FC")})
	viaOverride := Resolve(&session, &Override{TenantID: tenantID, TenantName: "FC"}, Lookup{})

	assert.False(t, viaNative.Impersonating)
	assert.True(t, viaOverride.Impersonating)
	assert.Equal(t, viaNative.TenantID, viaOverride.TenantID)
}
