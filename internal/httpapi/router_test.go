package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *catalog.Store) {
	t.Helper()
	n := 0
	store, err := catalog.Open(context.Background(), types.Config{}, nil, nil,
		catalog.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}),
	)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(store, nil, DefaultBasePath))
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close(context.Background())
	})
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, resp))
}

func TestListNeologisms(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/neologisms/", "/api/neologisms"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		list := decodeBody[[]types.Neologism](t, resp)
		assert.Len(t, list, 5, path)
	}
}

func TestListNeologismsQueryParameters(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"q=phone", []string{"Phubbing", "Nomophobia"}},
		{"category=1", []string{"Doomscrolling", "Nomophobia"}},
		{"status=Draft", []string{"Infodemic"}},
		{"status=draft", []string{}},
		{"status=all", []string{"Doomscrolling", "Phubbing", "Nomophobia", "Infodemic", "Webinar"}},
		{"category=1&status=Ready&q=scroll", []string{"Doomscrolling"}},
		{"q=zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, srv.URL+"/api/neologisms/?"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			list := decodeBody[[]types.Neologism](t, resp)
			got := []string{}
			for _, n := range list {
				got = append(got, n.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetNeologism(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/neologisms/2/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	n := decodeBody[types.Neologism](t, resp)
	assert.Equal(t, "Phubbing", n.Name)
	assert.Equal(t, "Culture", n.Category)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/neologisms/nope/", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decodeBody[map[string]string](t, resp)["error"], "not found")
}

func TestCreateNeologism(t *testing.T) {
	srv, store := newTestServer(t)

	draft := types.Draft{
		Name:       "Zoomtired",
		RootWords:  []string{"Zoom", "tired"},
		CategoryID: "1",
		Definition: "Worn out by back-to-back video calls.",
		Status:     types.StatusDraft,
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/neologisms/", draft)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	n := decodeBody[types.Neologism](t, resp)
	assert.Equal(t, "new-1", n.ID)
	assert.Equal(t, "Technology", n.Category)
	assert.False(t, n.CreatedAt.IsZero())

	latest, ok, err := store.LatestNeologism(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Zoomtired", latest.Name)
}

func TestCreateNeologismValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/neologisms/", types.Draft{
		Definition: "no name",
		CategoryID: "1",
		Status:     types.StatusDraft,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decodeBody[map[string]string](t, resp)["error"])

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/neologisms/", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestUpdateNeologism(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/neologisms/4/", nil)
	n := decodeBody[types.Neologism](t, resp)
	created := n.CreatedAt

	n.Definition = "An overabundance of information."
	n.ID = "ignored"
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/neologisms/4/", n)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[types.Neologism](t, resp)
	assert.Equal(t, "4", got.ID)
	assert.Equal(t, "An overabundance of information.", got.Definition)
	assert.True(t, created.Equal(got.CreatedAt))

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/neologisms/missing/", n)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatchStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/neologisms/4/", map[string]string{"status": "Ready"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, types.StatusReady, decodeBody[types.Neologism](t, resp).Status)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/neologisms/4/", map[string]string{"status": "Published"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/neologisms/missing/", map[string]string{"status": "Ready"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/", map[string]string{"name": "Gaming"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	c := decodeBody[types.Category](t, resp)
	assert.Equal(t, "Gaming", c.Name)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]types.Category](t, resp)
	require.Len(t, list, 7)
	assert.Equal(t, c, list[6])

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClosedCatalogIsUnavailable(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.Close(context.Background()))

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/neologisms/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRootBasePath(t *testing.T) {
	store, err := catalog.Open(context.Background(), types.Config{}, nil, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(store, nil, "/"))
	defer srv.Close()

	resp := doJSON(t, http.MethodGet, srv.URL+"/categories/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	// Browsers send request header names lowercased.
	tests := []struct {
		name           string
		requestHeaders string
	}{
		{name: "content type header", requestHeaders: "content-type"},
		{name: "authorization and content type", requestHeaders: "authorization,content-type"},
		{name: "no request headers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/neologisms/", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			if tt.requestHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tt.requestHeaders)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
		})
	}
}
