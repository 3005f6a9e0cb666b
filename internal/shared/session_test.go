package shared_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-interiors/meridian/internal/shared"
)

func newSessionManager(t *testing.T) (*shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "secret", time.Hour), mr
}

func TestSessionIssueAndResolve(t *testing.T) {
	sm, _ := newSessionManager(t)
	ctx := context.Background()

	claims := shared.Claims{UserID: 7, Store: "Leeds", Role: shared.RoleManager}
	token, err := sm.Issue(ctx, claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := sm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, claims, *resolved)
	require.False(t, resolved.IsAdmin())
}

func TestSessionResolveUnknownToken(t *testing.T) {
	sm, _ := newSessionManager(t)

	_, err := sm.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, shared.ErrSessionNotFound)

	_, err = sm.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrSessionNotFound)
}

func TestSessionRevoke(t *testing.T) {
	sm, _ := newSessionManager(t)
	ctx := context.Background()

	token, err := sm.Issue(ctx, shared.Claims{UserID: 1, Role: shared.RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, sm.Revoke(ctx, token))
	_, err = sm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrSessionNotFound)

	require.NoError(t, sm.Revoke(ctx, token))
}

func TestSessionExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "secret", time.Minute)
	ctx := context.Background()

	token, err := sm.Issue(ctx, shared.Claims{UserID: 1})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = sm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrSessionNotFound)
}

func TestTokenFromRequest(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	require.Empty(t, shared.TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc123")
	require.Equal(t, "abc123", shared.TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic abc123")
	require.Empty(t, shared.TokenFromRequest(r))
}

func TestClaimsContext(t *testing.T) {
	claims := &shared.Claims{UserID: 3, Store: "York", Role: shared.RoleManager}
	ctx := shared.ContextWithClaims(context.Background(), claims)
	require.Equal(t, claims, shared.ClaimsFromContext(ctx))
	require.Nil(t, shared.ClaimsFromContext(context.Background()))
}
