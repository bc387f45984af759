package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesh-intelligence/coinage/internal/mirror"
)

// ErrNoToken is returned by Login when the response carries no token.
var ErrNoToken = errors.New("login response has no token")

// TokenStore keeps the session token between requests.
type TokenStore interface {
	// Token returns the stored token, or "" when there is none.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryTokenStore keeps the token for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStore) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) ClearToken(ctx context.Context) error {
	return m.SetToken(ctx, "")
}

// MirrorTokenStore keeps the token in a mirror under mirror.KeyAuthToken as
// a JSON string, so a login survives across CLI invocations.
type MirrorTokenStore struct {
	store mirror.Store
}

// NewMirrorTokenStore returns a TokenStore backed by s.
func NewMirrorTokenStore(s mirror.Store) *MirrorTokenStore {
	return &MirrorTokenStore{store: s}
}

func (m *MirrorTokenStore) Token(ctx context.Context) (string, error) {
	data, err := m.store.Get(ctx, mirror.KeyAuthToken)
	if errors.Is(err, mirror.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return "", fmt.Errorf("decoding stored token: %w", err)
	}
	return token, nil
}

func (m *MirrorTokenStore) SetToken(ctx context.Context, token string) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, mirror.KeyAuthToken, data)
}

func (m *MirrorTokenStore) ClearToken(ctx context.Context) error {
	return m.store.Delete(ctx, mirror.KeyAuthToken)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials, stores the returned token, and returns the
// whole response body.
func (c *Client) Login(ctx context.Context, username, password string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/auth/login/", loginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	token, _ := out["token"].(string)
	if token == "" {
		return out, ErrNoToken
	}
	if err := c.tokens.SetToken(ctx, token); err != nil {
		return out, err
	}
	c.log.Info("logged in", "username", username)
	return out, nil
}

// Register creates an account and returns the server's user data. It does
// not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/auth/register/", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &out)
	return out, err
}

// Logout forgets the stored token. No request is sent.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.ClearToken(ctx)
}

// IsAuthenticated reports whether a usable token is stored. Tokens that
// parse as JWTs are checked for expiry without verifying the signature;
// opaque tokens count as valid.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	token, err := c.tokens.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	return !tokenExpired(token, time.Now())
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
