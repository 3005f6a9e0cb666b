package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Roles recognised across the back office.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Claims identifies the caller for the duration of one request.
type Claims struct {
	UserID int64  `json:"user_id"`
	Store  string `json:"store"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the caller may see every store.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// ErrSessionNotFound indicates the presented token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager issues and resolves bearer-token sessions backed by Redis.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
	secret []byte
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{client: client, ttl: ttl, secret: []byte(secret)}
}

// Issue creates a session for the given claims and returns its token.
func (sm *SessionManager) Issue(ctx context.Context, claims Claims) (string, error) {
	token := sm.generateToken()
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	if err := sm.client.Set(ctx, sm.redisKey(token), data, sm.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up the claims for a token, refreshing its TTL.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	key := sm.redisKey(token)
	payload, err := sm.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	_ = sm.client.Expire(ctx, key, sm.ttl).Err()
	return &claims, nil
}

// Revoke deletes the session for a token.
func (sm *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := sm.client.Del(ctx, sm.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TokenFromRequest extracts the bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func (sm *SessionManager) redisKey(token string) string {
	return "session:" + token
}

func (sm *SessionManager) generateToken() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(sm.secret) > 0 {
		for i := range b {
			b[i] ^= sm.secret[i%len(sm.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
