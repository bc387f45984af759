package types

import (
	"context"
	"errors"
)

// Catalog is the operation set shared by every catalog backing. The local
// store answers from memory; the remote client answers over HTTP. Lookup
// misses on update are silent no-ops, not errors.
type Catalog interface {
	// Neologisms returns every neologism, newest first.
	Neologisms(ctx context.Context) ([]Neologism, error)

	// Neologism returns the neologism with the given id.
	// Returns ErrNotFound if there is none.
	Neologism(ctx context.Context, id string) (Neologism, error)

	// Categories returns every category in creation order.
	Categories(ctx context.Context) ([]Category, error)

	// AddNeologism stores a new neologism built from d with a fresh id and
	// creation time, and remembers it as the latest addition.
	AddNeologism(ctx context.Context, d Draft) (Neologism, error)

	// AddCategory appends a category. Duplicate names are allowed.
	AddCategory(ctx context.Context, name string) (Category, error)

	// UpdateNeologism replaces the record with n.ID.
	UpdateNeologism(ctx context.Context, n Neologism) error

	// UpdateNeologismStatus sets the status of the record with id.
	UpdateNeologismStatus(ctx context.Context, id string, status Status) error

	// SearchNeologisms matches query case-insensitively against name,
	// definition and root words. An empty query returns everything.
	SearchNeologisms(ctx context.Context, query string) ([]Neologism, error)

	// FilterByCategory returns neologisms in the category. "" and
	// FilterAll return everything.
	FilterByCategory(ctx context.Context, categoryID string) ([]Neologism, error)

	// FilterByStatus returns neologisms with the status. "" and FilterAll
	// return everything.
	FilterByStatus(ctx context.Context, status string) ([]Neologism, error)

	// RandomNeologism returns the latest addition of this session if any,
	// otherwise a random Ready neologism. ok is false when none qualifies.
	RandomNeologism(ctx context.Context) (n Neologism, ok bool, err error)

	// LatestNeologism returns the newest neologism. ok is false when the
	// catalog is empty.
	LatestNeologism(ctx context.Context) (n Neologism, ok bool, err error)

	// Flush makes pending changes durable.
	Flush(ctx context.Context) error

	// Close flushes and releases resources. Idempotent.
	Close(ctx context.Context) error
}

// Catalog lifecycle and lookup errors.
var (
	ErrCatalogClosed = errors.New("catalog is closed")
	ErrNotFound      = errors.New("entity not found")
	ErrRemote        = errors.New("remote request failed")
)

// Validation errors.
var (
	ErrInvalidName       = errors.New("name must not be empty")
	ErrInvalidDefinition = errors.New("definition must not be empty")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidRootWords  = errors.New("invalid root words")
)

// IsValidation reports whether err is one of the validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidRootWords)
}
