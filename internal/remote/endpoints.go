package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

func neologismPath(id string) string {
	return "/neologisms/" + url.PathEscape(id) + "/"
}

// GetNeologisms lists every neologism.
func (c *Client) GetNeologisms(ctx context.Context) ([]types.Neologism, error) {
	var out []types.Neologism
	if err := c.do(ctx, http.MethodGet, "/neologisms/", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Neologism{}
	}
	return out, nil
}

// GetNeologismByID fetches one neologism. A 404 matches types.ErrNotFound.
func (c *Client) GetNeologismByID(ctx context.Context, id string) (types.Neologism, error) {
	var out types.Neologism
	err := c.do(ctx, http.MethodGet, neologismPath(id), nil, &out)
	return out, err
}

// CreateNeologism posts a draft and returns the stored record.
func (c *Client) CreateNeologism(ctx context.Context, d types.Draft) (types.Neologism, error) {
	var out types.Neologism
	err := c.do(ctx, http.MethodPost, "/neologisms/", d, &out)
	return out, err
}

// UpdateNeologism replaces the neologism with id.
func (c *Client) UpdateNeologism(ctx context.Context, id string, n types.Neologism) (types.Neologism, error) {
	var out types.Neologism
	err := c.do(ctx, http.MethodPut, neologismPath(id), n, &out)
	return out, err
}

// statusPatch is the body of a status update.
type statusPatch struct {
	Status types.Status `json:"status"`
}

// UpdateNeologismStatus patches the status of the neologism with id.
func (c *Client) UpdateNeologismStatus(ctx context.Context, id string, status types.Status) (types.Neologism, error) {
	var out types.Neologism
	err := c.do(ctx, http.MethodPatch, neologismPath(id), statusPatch{Status: status}, &out)
	return out, err
}

// GetCategories lists every category.
func (c *Client) GetCategories(ctx context.Context) ([]types.Category, error) {
	var out []types.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Category{}
	}
	return out, nil
}

// categoryRequest is the body of a category creation.
type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory creates a category named name.
func (c *Client) CreateCategory(ctx context.Context, name string) (types.Category, error) {
	var out types.Category
	err := c.do(ctx, http.MethodPost, "/categories/", categoryRequest{Name: name}, &out)
	return out, err
}
