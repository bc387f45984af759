package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

// AddNeologism stores a neologism built from d, newest first, and makes it
// the featured pick for the rest of the session. d.Status is stored as
// given. In strict mode d must pass types.ValidateDraft and name an
// existing category.
func (s *Store) AddNeologism(ctx context.Context, d types.Draft) (types.Neologism, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.Neologism{}, types.ErrCatalogClosed
	}
	if err := s.validateLocked(d); err != nil {
		s.mu.Unlock()
		return types.Neologism{}, err
	}

	n := types.Neologism{
		ID:         s.newID(),
		Name:       d.Name,
		RootWords:  append([]string(nil), d.RootWords...),
		CategoryID: d.CategoryID,
		Category:   d.Category,
		Definition: d.Definition,
		ImageURL:   d.ImageURL,
		Status:     d.Status,
		CreatedAt:  s.now(),
	}
	if n.Category == "" {
		n.Category = s.categoryNameLocked(n.CategoryID)
	}

	s.neologisms = append([]types.Neologism{n}, s.neologisms...)
	s.latestID = n.ID
	s.neologismsVersion++
	out := s.resolveLocked(n)
	s.mu.Unlock()

	s.log.Debug("neologism added", "id", n.ID, "name", n.Name, "status", n.Status)
	s.changed(ctx)
	return out, nil
}

// AddCategory appends a category named name. Names are not required to be
// unique. In strict mode an empty name is rejected.
func (s *Store) AddCategory(ctx context.Context, name string) (types.Category, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.Category{}, types.ErrCatalogClosed
	}
	if s.strict() && strings.TrimSpace(name) == "" {
		s.mu.Unlock()
		return types.Category{}, types.ErrInvalidName
	}

	c := types.Category{ID: s.newID(), Name: name}
	s.categories = append(s.categories, c)
	s.categoriesVersion++
	s.mu.Unlock()

	s.log.Debug("category added", "id", c.ID, "name", c.Name)
	s.changed(ctx)
	return c, nil
}

// UpdateNeologismStatus sets the status of the neologism with id. An
// unknown id is a silent no-op. In strict mode status must be one of the
// workflow states.
func (s *Store) UpdateNeologismStatus(ctx context.Context, id string, status types.Status) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.ErrCatalogClosed
	}
	if s.strict() && !status.Valid() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", types.ErrInvalidStatus, status)
	}

	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug("status update for unknown neologism ignored", "id", id)
		return nil
	}
	s.neologisms[i].Status = status
	s.neologismsVersion++
	s.mu.Unlock()

	s.log.Debug("neologism status updated", "id", id, "status", status)
	s.changed(ctx)
	return nil
}

// UpdateNeologism replaces the neologism with n.ID by n, keeping the stored
// createdAt. An unknown id is a silent no-op. The category name is derived
// from n.CategoryID on every read, so callers need not refresh it.
func (s *Store) UpdateNeologism(ctx context.Context, n types.Neologism) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.ErrCatalogClosed
	}

	i := s.indexLocked(n.ID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug("update for unknown neologism ignored", "id", n.ID)
		return nil
	}
	if err := s.validateLocked(n.Draft()); err != nil {
		s.mu.Unlock()
		return err
	}

	n = n.Clone()
	n.CreatedAt = s.neologisms[i].CreatedAt
	s.neologisms[i] = n
	s.neologismsVersion++
	s.mu.Unlock()

	s.log.Debug("neologism updated", "id", n.ID)
	s.changed(ctx)
	return nil
}

// ClearLatest forgets the session's latest addition so RandomNeologism
// goes back to picking among Ready neologisms.
func (s *Store) ClearLatest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestID = ""
}

// Neologisms returns every neologism, newest first.
func (s *Store) Neologisms(_ context.Context) ([]types.Neologism, error) {
	return s.snapshot()
}

// Neologism returns the neologism with id, or types.ErrNotFound.
func (s *Store) Neologism(_ context.Context, id string) (types.Neologism, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.Neologism{}, types.ErrCatalogClosed
	}
	i := s.indexLocked(id)
	if i < 0 {
		return types.Neologism{}, fmt.Errorf("neologism %q: %w", id, types.ErrNotFound)
	}
	return s.resolveLocked(s.neologisms[i]), nil
}

// Categories returns every category in creation order.
func (s *Store) Categories(_ context.Context) ([]types.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrCatalogClosed
	}
	return append([]types.Category{}, s.categories...), nil
}

// SearchNeologisms returns neologisms whose name, definition or a root word
// contains query, ignoring case. An empty query returns everything.
func (s *Store) SearchNeologisms(_ context.Context, query string) ([]types.Neologism, error) {
	list, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return Search(list, query), nil
}

// FilterByCategory returns the neologisms in categoryID; "" and "all"
// return everything.
func (s *Store) FilterByCategory(_ context.Context, categoryID string) ([]types.Neologism, error) {
	list, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return FilterByCategory(list, categoryID), nil
}

// FilterByStatus returns the neologisms with status; "" and "all" return
// everything.
func (s *Store) FilterByStatus(_ context.Context, status string) ([]types.Neologism, error) {
	list, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return FilterByStatus(list, status), nil
}

// RandomNeologism returns the neologism added most recently in this session
// whatever its status, or else a uniformly random Ready neologism.
func (s *Store) RandomNeologism(_ context.Context) (types.Neologism, bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return types.Neologism{}, false, types.ErrCatalogClosed
	}
	latestID := s.latestID
	s.mu.RUnlock()

	list, err := s.snapshot()
	if err != nil {
		return types.Neologism{}, false, err
	}
	n, ok := Featured(list, latestID, s.pick)
	return n, ok, nil
}

// LatestNeologism returns the newest neologism.
func (s *Store) LatestNeologism(_ context.Context) (types.Neologism, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.Neologism{}, false, types.ErrCatalogClosed
	}
	if len(s.neologisms) == 0 {
		return types.Neologism{}, false, nil
	}
	return s.resolveLocked(s.neologisms[0]), true, nil
}

// snapshot returns resolved copies of every neologism.
func (s *Store) snapshot() ([]types.Neologism, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrCatalogClosed
	}
	out := make([]types.Neologism, len(s.neologisms))
	for i, n := range s.neologisms {
		out[i] = s.resolveLocked(n)
	}
	return out, nil
}

// resolveLocked returns a copy of n with Category derived from its
// CategoryID. The stored name is kept when the category no longer exists.
func (s *Store) resolveLocked(n types.Neologism) types.Neologism {
	n = n.Clone()
	if name := s.categoryNameLocked(n.CategoryID); name != "" {
		n.Category = name
	}
	return n
}

func (s *Store) categoryNameLocked(id string) string {
	c, _ := s.categoryLocked(id)
	return c.Name
}

func (s *Store) categoryLocked(id string) (types.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return types.Category{}, false
}

func (s *Store) indexLocked(id string) int {
	for i, n := range s.neologisms {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) strict() bool {
	return s.cfg.Validation == types.ValidationStrict
}

// validateLocked applies strict-mode rules; lenient mode accepts anything.
func (s *Store) validateLocked(d types.Draft) error {
	if !s.strict() {
		return nil
	}
	if err := types.ValidateDraft(d, s.cfg.MaxRootWords); err != nil {
		return err
	}
	if _, ok := s.categoryLocked(d.CategoryID); !ok {
		return fmt.Errorf("%w: no category with id %q", types.ErrInvalidCategory, d.CategoryID)
	}
	return nil
}
