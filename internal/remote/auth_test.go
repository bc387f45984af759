package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinage/internal/mirror"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// authServer answers the auth routes the way the REST API does.
func authServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": token, "user": map[string]string{"username": body["username"]}})
	})
	mux.HandleFunc("POST /auth/register/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"username": body["username"], "email": body["email"]})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := authServer(t, token)
	ctx := context.Background()
	ts := &MemoryTokenStore{}
	c := New(srv.URL, WithTokenStore(ts))

	assert.False(t, c.IsAuthenticated(ctx))

	resp, err := c.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, token, resp["token"])

	stored, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)
	assert.True(t, c.IsAuthenticated(ctx))

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.IsAuthenticated(ctx))
}

func TestLoginFailure(t *testing.T) {
	srv := authServer(t, "unused")
	ctx := context.Background()
	c := New(srv.URL)

	_, err := c.Login(ctx, "alice", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, c.IsAuthenticated(ctx))
}

func TestLoginWithoutToken(t *testing.T) {
	srv := authServer(t, "")
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "alice", "hunter2")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, c.IsAuthenticated(context.Background()))
}

func TestRegister(t *testing.T) {
	srv := authServer(t, "unused")
	c := New(srv.URL)

	user, err := c.Register(context.Background(), "bob", "bob@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bob", user["username"])
	assert.Equal(t, "bob@example.com", user["email"])
	assert.False(t, c.IsAuthenticated(context.Background()))
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque token", "not-a-jwt", false},
		{"future exp", signedToken(t, now.Add(time.Minute)), false},
		{"past exp", signedToken(t, now.Add(-time.Minute)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenExpired(tt.token, now))
		})
	}
}

func TestExpiredTokenIsNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	ts := &MemoryTokenStore{}
	require.NoError(t, ts.SetToken(ctx, signedToken(t, time.Now().Add(-time.Hour))))
	assert.False(t, New("", WithTokenStore(ts)).IsAuthenticated(ctx))
}

func TestMirrorTokenStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := mirror.NewFileStore(dir)
	require.NoError(t, err)
	ts := NewMirrorTokenStore(fs)

	tok, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.SetToken(ctx, "persisted"))

	fs2, err := mirror.NewFileStore(dir)
	require.NoError(t, err)
	ts2 := NewMirrorTokenStore(fs2)
	tok, err = ts2.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)

	require.NoError(t, ts2.ClearToken(ctx))
	require.NoError(t, ts2.ClearToken(ctx))
	tok, err = ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}
