package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromClaims(t *testing.T) {
	id, ok := FromClaims(map[string]string{"sub": "u1", "email": "a@x.io"})
	assert.True(t, ok)
	assert.Equal(t, Identity{Subject: "u1", Email: "a@x.io"}, id)

	_, ok = FromClaims(map[string]string{"email": "a@x.io"})
	assert.False(t, ok)

	_, ok = FromClaims(nil)
	assert.False(t, ok)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{Subject: "u1"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.Subject)
}
