package tenantctx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

const defaultLookupTimeout = 5 * time.Second

type EventKind int

const (
	EventSignedIn EventKind = iota
	EventTokenRefreshed
	EventSignedOut
)

func (k EventKind) String() string {
	switch k {
	case EventSignedIn:
		return "signed_in"
	case EventTokenRefreshed:
		return "token_refreshed"
	case EventSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// SessionEvent is a change of the device's authentication session.
// Principal is ignored for EventSignedOut.
type SessionEvent struct {
	Kind      EventKind
	Principal requestcontext.Principal
}

// Resolver tracks the active tenant of one device session.
//
// Every mutation bumps a generation counter. An async lookup only applies
// its result when its generation is still current and no override is set,
// so a slow lookup never overwrites a newer override or session.
type Resolver struct {
	overrides *OverrideStore
	roles     RoleLookup
	logger    *slog.Logger
	metrics   *Metrics
	timeout   time.Duration
	onChange  func(Resolution)

	mu         sync.Mutex
	principal  *requestcontext.Principal
	override   *Override
	lookup     Lookup
	generation uint64

	wg sync.WaitGroup
}

type ResolverOption func(*Resolver)

func WithLookupTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithOnChange registers an observer called after every change, outside the lock.
func WithOnChange(fn func(Resolution)) ResolverOption {
	return func(r *Resolver) {
		r.onChange = fn
	}
}

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithResolverMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func NewResolver(overrides *OverrideStore, roles RoleLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		overrides: overrides,
		roles:     roles,
		timeout:   defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Current returns the resolution for the present inputs.
func (r *Resolver) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLocked()
}

func (r *Resolver) currentLocked() Resolution {
	return Resolve(r.principal, r.override, r.lookup)
}

// Principal returns the signed-in principal, if any.
func (r *Resolver) Principal() (requestcontext.Principal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.principal == nil {
		return requestcontext.Principal{}, false
	}
	return *r.principal, true
}

// HandleSessionEvent applies a session change. Sign-out removes the persisted
// override before returning. Sign-in and refresh keep an existing override,
// even when a different principal signs in on the same device.
func (r *Resolver) HandleSessionEvent(ctx context.Context, ev SessionEvent) {
	if ev.Kind == EventSignedOut {
		r.signOut(ctx)
		return
	}

	r.mu.Lock()
	p := ev.Principal
	r.principal = &p
	r.generation++
	if r.override == nil {
		o, err := r.overrides.Load(ctx)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to load tenant override", "error", err, "event", ev.Kind.String())
		}
		r.override = o
	}
	if r.override != nil {
		r.lookup = Lookup{}
		res := r.currentLocked()
		r.mu.Unlock()
		r.notify(res)
		return
	}
	res := r.startLookupLocked(ctx)
	r.mu.Unlock()
	r.notify(res)
}

func (r *Resolver) signOut(ctx context.Context) {
	r.mu.Lock()
	if err := r.overrides.Clear(ctx); err != nil {
		r.logger.ErrorContext(ctx, "failed to clear tenant override on sign-out", "error", err)
	}
	r.principal = nil
	r.override = nil
	r.lookup = Lookup{}
	r.generation++
	res := r.currentLocked()
	r.mu.Unlock()
	r.notify(res)
}

// SetOverride persists an explicit club selection. The resolution is
// available as soon as SetOverride returns.
func (r *Resolver) SetOverride(ctx context.Context, tenantID id.TenantID, tenantName string) (Resolution, error) {
	o := Override{TenantID: tenantID, TenantName: tenantName}

	r.mu.Lock()
	if err := r.overrides.Save(ctx, o); err != nil {
		res := r.currentLocked()
		r.mu.Unlock()
		return res, err
	}
	r.override = &o
	r.lookup = Lookup{}
	r.generation++
	res := r.currentLocked()
	r.mu.Unlock()

	r.notify(res)
	return res, nil
}

// ClearOverride drops the selection and falls back to the native scope. The
// resolution is loading until the role lookup completes.
func (r *Resolver) ClearOverride(ctx context.Context) (Resolution, error) {
	r.mu.Lock()
	if err := r.overrides.Clear(ctx); err != nil {
		res := r.currentLocked()
		r.mu.Unlock()
		return res, err
	}
	r.override = nil
	r.generation++
	var res Resolution
	if r.principal == nil {
		r.lookup = Lookup{}
		res = r.currentLocked()
	} else {
		res = r.startLookupLocked(ctx)
	}
	r.mu.Unlock()

	r.notify(res)
	return res, nil
}

// Wait blocks until in-flight lookups have finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// startLookupLocked must be called with r.mu held and a principal set.
func (r *Resolver) startLookupLocked(ctx context.Context) Resolution {
	r.generation++
	gen := r.generation
	principalID := r.principal.ID
	r.lookup = Lookup{InFlight: true}

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		start := time.Now()
		native, err := r.lookupNative(lookupCtx, principalID)
		r.metrics.observeLookup(start, err)
		if err != nil {
			r.logger.WarnContext(lookupCtx, "role lookup failed",
				"error", err,
				"principal_id", principalID.String(),
			)
		}

		r.mu.Lock()
		if gen != r.generation || r.override != nil {
			r.mu.Unlock()
			r.metrics.incrementStale()
			return
		}
		r.lookup = Lookup{Native: native, Err: err}
		res := r.currentLocked()
		r.mu.Unlock()
		r.notify(res)
	}()

	return r.currentLocked()
}

// lookupNative turns a panicking lookup into a failed one.
func (r *Resolver) lookupNative(ctx context.Context, principalID id.PrincipalID) (native *NativeScope, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			native, err = nil, fmt.Errorf("role lookup panicked: %v", rec)
		}
	}()
	return r.roles.LookupNative(ctx, principalID)
}

func (r *Resolver) notify(res Resolution) {
	if r.onChange != nil {
		r.onChange(res)
	}
}
