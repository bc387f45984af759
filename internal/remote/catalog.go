package remote

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

var _ types.Catalog = (*Catalog)(nil)

// Catalog serves types.Catalog from a remote API. Queries fetch the full
// list and filter it locally.
//
// UpdateNeologism and UpdateNeologismStatus return nil when the server
// answers 404, matching the local store's silent no-op for unknown ids.
// Every other failure, including other 4xx and 5xx answers, is returned
// as an *APIError. Use Client directly to observe the 404.
type Catalog struct {
	client *Client
	pick   func(n int) int

	mu       sync.Mutex
	closed   bool
	latestID string
}

// NewCatalog wraps client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client, pick: rand.IntN}
}

// Client returns the underlying client.
func (c *Catalog) Client() *Client { return c.client }

func (c *Catalog) open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ErrCatalogClosed
	}
	return nil
}

func (c *Catalog) Neologisms(ctx context.Context) ([]types.Neologism, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	return c.client.GetNeologisms(ctx)
}

func (c *Catalog) Neologism(ctx context.Context, id string) (types.Neologism, error) {
	if err := c.open(); err != nil {
		return types.Neologism{}, err
	}
	return c.client.GetNeologismByID(ctx, id)
}

func (c *Catalog) Categories(ctx context.Context) ([]types.Category, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	return c.client.GetCategories(ctx)
}

// AddNeologism creates d on the server and makes the result the featured
// pick for this catalog.
func (c *Catalog) AddNeologism(ctx context.Context, d types.Draft) (types.Neologism, error) {
	if err := c.open(); err != nil {
		return types.Neologism{}, err
	}
	n, err := c.client.CreateNeologism(ctx, d)
	if err != nil {
		return types.Neologism{}, err
	}
	c.mu.Lock()
	c.latestID = n.ID
	c.mu.Unlock()
	return n, nil
}

func (c *Catalog) AddCategory(ctx context.Context, name string) (types.Category, error) {
	if err := c.open(); err != nil {
		return types.Category{}, err
	}
	return c.client.CreateCategory(ctx, name)
}

func (c *Catalog) UpdateNeologism(ctx context.Context, n types.Neologism) error {
	if err := c.open(); err != nil {
		return err
	}
	_, err := c.client.UpdateNeologism(ctx, n.ID, n)
	return ignoreNotFound(err)
}

func (c *Catalog) UpdateNeologismStatus(ctx context.Context, id string, status types.Status) error {
	if err := c.open(); err != nil {
		return err
	}
	_, err := c.client.UpdateNeologismStatus(ctx, id, status)
	return ignoreNotFound(err)
}

func (c *Catalog) SearchNeologisms(ctx context.Context, query string) ([]types.Neologism, error) {
	list, err := c.Neologisms(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(list, query), nil
}

func (c *Catalog) FilterByCategory(ctx context.Context, categoryID string) ([]types.Neologism, error) {
	list, err := c.Neologisms(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterByCategory(list, categoryID), nil
}

func (c *Catalog) FilterByStatus(ctx context.Context, status string) ([]types.Neologism, error) {
	list, err := c.Neologisms(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterByStatus(list, status), nil
}

func (c *Catalog) RandomNeologism(ctx context.Context) (types.Neologism, bool, error) {
	list, err := c.Neologisms(ctx)
	if err != nil {
		return types.Neologism{}, false, err
	}
	c.mu.Lock()
	latestID := c.latestID
	c.mu.Unlock()
	n, ok := catalog.Featured(list, latestID, c.pick)
	return n, ok, nil
}

func (c *Catalog) LatestNeologism(ctx context.Context) (types.Neologism, bool, error) {
	list, err := c.Neologisms(ctx)
	if err != nil {
		return types.Neologism{}, false, err
	}
	n, ok := catalog.Latest(list)
	return n, ok, nil
}

// Flush is a no-op; every mutation is sent as it happens.
func (c *Catalog) Flush(_ context.Context) error {
	return c.open()
}

// Close releases idle connections. Idempotent.
func (c *Catalog) Close(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

// ignoreNotFound drops 404 answers to updates.
func ignoreNotFound(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}
