package goGuard

import (
	"context"
	"errors"
	"fmt"
)

// Resolver turns a verified token subject into a live [Principal] through
// the configured [CredentialStore], applying the activity check. Because
// resolution always hits the live record, role changes and deactivation
// take effect immediately, even for previously issued, still-unexpired
// tokens.
type Resolver struct {
	store CredentialStore
}

// NewResolver describes the newresolver operation and its observable behavior.
//
// NewResolver may return an error when input validation, dependency calls, or security checks fail.
// NewResolver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewResolver(store CredentialStore) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("credential store is required")
	}
	return &Resolver{store: store}, nil
}

// Resolve looks up the principal for key. Missing principals return
// [ErrPrincipalNotFound], deactivated ones [ErrPrincipalInactive]; other
// store failures are wrapped as [ErrStoreUnavailable].
func (r *Resolver) Resolve(ctx context.Context, key string) (*Principal, error) {
	p, err := r.store.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !p.Active {
		return nil, ErrPrincipalInactive
	}
	return p, nil
}
