// Package requestcontext carries request-scoped values (request id, principal,
// device session, active tenant) as explicit context values.
package requestcontext

import (
	"context"
	"time"

	id "a2admin/pkg/domain"
)

type (
	requestIDKey    struct{}
	principalKey    struct{}
	deviceIDKey     struct{}
	activeTenantKey struct{}
	clientIPKey     struct{}
	nowKey          struct{}
)

// Principal is the authenticated identity behind a request.
type Principal struct {
	ID    id.PrincipalID
	Email string
}

// ActiveTenant is the tenant a tenant-scoped request operates against.
type ActiveTenant struct {
	ID            id.TenantID
	Name          string
	Impersonating bool
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id or "" when absent.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the authenticated principal, if RequireAuth ran.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.ID.IsNil() {
		return Principal{}, false
	}
	return p, true
}

func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

func DeviceID(ctx context.Context) string {
	v, _ := ctx.Value(deviceIDKey{}).(string)
	return v
}

func WithActiveTenant(ctx context.Context, t ActiveTenant) context.Context {
	return context.WithValue(ctx, activeTenantKey{}, t)
}

// ActiveTenantFrom returns the tenant resolved for this request.
func ActiveTenantFrom(ctx context.Context) (ActiveTenant, bool) {
	t, ok := ctx.Value(activeTenantKey{}).(ActiveTenant)
	if !ok || t.ID.IsNil() {
		return ActiveTenant{}, false
	}
	return t, true
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

// WithTime pins the clock for a request; tests use it for deterministic timestamps.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, t)
}

// Now returns the pinned request time, or time.Now when none was pinned.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
