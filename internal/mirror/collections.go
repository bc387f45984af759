package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// errNullCollection marks a stored JSON null, which is treated as corrupt.
var errNullCollection = errors.New("stored collection is null")

// LoadNeologisms reads the neologism collection. ok is false when nothing
// is stored or the stored data cannot be parsed; the failure is logged and
// the caller falls back to seed data. createdAt values come back as
// time.Time parsed from their RFC 3339 text.
func LoadNeologisms(ctx context.Context, s Store, log *logger.Logger) ([]types.Neologism, bool) {
	var out []types.Neologism
	if !load(ctx, s, KeyNeologisms, &out, log) {
		return nil, false
	}
	return out, true
}

// LoadCategories reads the category collection with the same fallback
// rules as LoadNeologisms.
func LoadCategories(ctx context.Context, s Store, log *logger.Logger) ([]types.Category, bool) {
	var out []types.Category
	if !load(ctx, s, KeyCategories, &out, log) {
		return nil, false
	}
	return out, true
}

// SaveNeologisms overwrites the stored neologism collection.
func SaveNeologisms(ctx context.Context, s Store, records []types.Neologism) error {
	if records == nil {
		records = []types.Neologism{}
	}
	return save(ctx, s, KeyNeologisms, records)
}

// SaveCategories overwrites the stored category collection.
func SaveCategories(ctx context.Context, s Store, records []types.Category) error {
	if records == nil {
		records = []types.Category{}
	}
	return save(ctx, s, KeyCategories, records)
}

func load[T any](ctx context.Context, s Store, key string, out *[]T, log *logger.Logger) bool {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		log.Debug("mirror empty", "key", key)
		return false
	}
	if err != nil {
		log.Error("error loading from mirror", "key", key, "error", err)
		return false
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error("error parsing mirror data", "key", key, "error", err)
		return false
	}
	if records == nil {
		log.Error("error parsing mirror data", "key", key, "error", errNullCollection)
		return false
	}
	*out = records
	return true
}

func save[T any](ctx context.Context, s Store, key string, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
