package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/internal/httpapi"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// newAPI starts an httpapi server over a fresh in-memory catalog and
// returns a client pointed at it.
func newAPI(t *testing.T) (*Client, *catalog.Store) {
	t.Helper()
	store, err := catalog.Open(context.Background(), types.Config{}, nil, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.NewRouter(store, nil, httpapi.DefaultBasePath))
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close(context.Background())
	})
	return New(srv.URL + "/api/"), store
}

func TestNewDefaults(t *testing.T) {
	c := New("")
	assert.Equal(t, types.DefaultAPIURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)

	c = New("http://example.test/api///")
	assert.Equal(t, "http://example.test/api", c.BaseURL())
}

func TestClientNeologisms(t *testing.T) {
	c, _ := newAPI(t)
	ctx := context.Background()

	list, err := c.GetNeologisms(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "Doomscrolling", list[0].Name)

	n, err := c.GetNeologismByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Nomophobia", n.Name)
	assert.Equal(t, []string{"No", "Mobile", "Phobia"}, n.RootWords)
	assert.Equal(t, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), n.CreatedAt.UTC())

	created, err := c.CreateNeologism(ctx, types.Draft{
		Name:       "Sharenting",
		RootWords:  []string{"Share", "Parenting"},
		CategoryID: "5",
		Definition: "Posting a lot about one's children online.",
		Status:     types.StatusDraft,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Culture", created.Category)

	created.Definition = "Oversharing about one's children online."
	updated, err := c.UpdateNeologism(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Oversharing about one's children online.", updated.Definition)

	patched, err := c.UpdateNeologismStatus(ctx, created.ID, types.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, types.StatusReady, patched.Status)
}

func TestClientCategories(t *testing.T) {
	c, _ := newAPI(t)
	ctx := context.Background()

	created, err := c.CreateCategory(ctx, "Gaming")
	require.NoError(t, err)
	assert.Equal(t, "Gaming", created.Name)

	list, err := c.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 7)
	assert.Equal(t, created, list[6])
}

func TestClientErrors(t *testing.T) {
	c, _ := newAPI(t)
	ctx := context.Background()

	_, err := c.GetNeologismByID(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRemote)
	assert.ErrorIs(t, err, types.ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Contains(t, apiErr.Body, "not found")

	_, err = c.CreateNeologism(ctx, types.Draft{Name: "x"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.ErrorIs(t, err, types.ErrRemote)
	assert.NotErrorIs(t, err, types.ErrNotFound)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).GetNeologisms(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrRemote)
}

func TestClientHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).GetCategories(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetNeologisms(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]types.Category{})
	}))
	defer srv.Close()
	ctx := context.Background()

	ts := &MemoryTokenStore{}
	c := New(srv.URL, WithTokenStore(ts))

	_, err := c.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, ts.SetToken(ctx, "abc123"))
	_, err = c.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", got)
}
