package tenantctx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

type sessionEntry struct {
	resolver    *Resolver
	fingerprint string
	lastSeen    time.Time
}

// Sessions keeps one Resolver per principal and device, and turns bearer
// observations into session events. The device id is client-chosen, so it
// never selects state on its own.
type Sessions struct {
	kv           KV
	roles        RoleLookup
	metrics      *Metrics
	resolverOpts []ResolverOption

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type SessionsOption func(*Sessions)

func WithSessionMetrics(m *Metrics) SessionsOption {
	return func(s *Sessions) {
		s.metrics = m
		s.resolverOpts = append(s.resolverOpts, WithResolverMetrics(m))
	}
}

// WithResolverOptions applies opts to every resolver the registry creates.
func WithResolverOptions(opts ...ResolverOption) SessionsOption {
	return func(s *Sessions) {
		s.resolverOpts = append(s.resolverOpts, opts...)
	}
}

func NewSessions(kv KV, roles RoleLookup, opts ...SessionsOption) *Sessions {
	s := &Sessions{kv: kv, roles: roles, entries: make(map[string]*sessionEntry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionKey binds a device to the principal whose token was verified.
func sessionKey(principalID id.PrincipalID, deviceID string) string {
	return principalID.String() + "/" + deviceID
}

// Overrides returns the override store of a principal on a device.
func (s *Sessions) Overrides(principalID id.PrincipalID, deviceID string) *OverrideStore {
	return NewOverrideStore(s.kv, sessionKey(principalID, deviceID))
}

// Observe records that deviceID presented a valid token for principal. The
// first observation is a sign-in; a new token is a refresh; the same token
// again changes nothing.
func (s *Sessions) Observe(ctx context.Context, deviceID string, principal requestcontext.Principal, token string) *Resolver {
	fp := fingerprint(token)
	key := sessionKey(principal.ID, deviceID)

	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		entry = &sessionEntry{resolver: NewResolver(s.Overrides(principal.ID, deviceID), s.roles, s.resolverOpts...)}
		s.entries[key] = entry
		s.metrics.setSessions(len(s.entries))
	}
	previous := entry.fingerprint
	entry.fingerprint = fp
	entry.lastSeen = time.Now()
	s.mu.Unlock()

	current, signedIn := entry.resolver.Principal()
	switch {
	case !signedIn || current.ID != principal.ID:
		entry.resolver.HandleSessionEvent(ctx, SessionEvent{Kind: EventSignedIn, Principal: principal})
	case previous != fp:
		entry.resolver.HandleSessionEvent(ctx, SessionEvent{Kind: EventTokenRefreshed, Principal: principal})
	}
	return entry.resolver
}

// Resolver returns the live resolver of a principal on a device.
func (s *Sessions) Resolver(principalID id.PrincipalID, deviceID string) (*Resolver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionKey(principalID, deviceID)]
	if !ok {
		return nil, false
	}
	return entry.resolver, true
}

// SignOut clears the principal's override on the device and forgets its
// resolver. Sessions without a live resolver still get their persisted
// override removed.
func (s *Sessions) SignOut(ctx context.Context, principalID id.PrincipalID, deviceID string) error {
	key := sessionKey(principalID, deviceID)
	s.mu.Lock()
	entry, ok := s.entries[key]
	delete(s.entries, key)
	s.metrics.setSessions(len(s.entries))
	s.mu.Unlock()

	if !ok {
		return s.Overrides(principalID, deviceID).Clear(ctx)
	}
	entry.resolver.HandleSessionEvent(ctx, SessionEvent{Kind: EventSignedOut})
	return nil
}

// Prune forgets resolvers idle for longer than idle. Persisted overrides are
// kept; the next observation restores them.
func (s *Sessions) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for key, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, key)
			n++
		}
	}
	s.metrics.setSessions(len(s.entries))
	return n
}

// RunPruner calls Prune every interval until ctx is done.
func (s *Sessions) RunPruner(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune(idle)
		}
	}
}

// fingerprint avoids keeping raw bearer tokens in memory.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
