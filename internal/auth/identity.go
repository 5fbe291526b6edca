// Package auth carries the caller identity handed over by the upstream
// authorizer. Token verification itself happens outside the core.
package auth

import (
	"context"
	"strings"
)

// Claim names read from the authorizer
const (
	ClaimSubject = "sub"
	ClaimEmail   = "email"
)

// Identity is the authenticated caller
type Identity struct {
	Subject string
	Email   string
}

// IsZero reports whether no subject is present
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Subject) == ""
}

// FromClaims builds an identity from authorizer claims. ok is false when
// the subject claim is missing or blank.
func FromClaims(claims map[string]string) (Identity, bool) {
	if claims == nil {
		return Identity{}, false
	}
	id := Identity{
		Subject: strings.TrimSpace(claims[ClaimSubject]),
		Email:   strings.TrimSpace(claims[ClaimEmail]),
	}
	return id, !id.IsZero()
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
