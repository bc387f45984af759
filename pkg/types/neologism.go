package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a neologism. Only Ready entries are
// eligible for random featuring.
type Status string

// Neologism workflow states.
const (
	StatusDraft    Status = "Draft"
	StatusReady    Status = "Ready"
	StatusRejected Status = "Rejected"
)

// validStatuses is the set of recognized status values.
var validStatuses = map[Status]bool{
	StatusDraft:    true,
	StatusReady:    true,
	StatusRejected: true,
}

// Valid reports whether s is one of the workflow states.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// ParseStatus matches s case-insensitively against the workflow states.
// Returns ErrInvalidStatus if nothing matches.
func ParseStatus(s string) (Status, error) {
	for st := range validStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// FilterAll is the sentinel accepted by the category and status filters
// meaning "no filter".
const FilterAll = "all"

// DefaultMaxRootWords bounds the number of root words a neologism may have
// unless the configuration overrides it.
const DefaultMaxRootWords = 3

// Neologism is a coined word in the catalog.
type Neologism struct {
	ID         string    `json:"id"`                 // UUID v7, generated on creation.
	Name       string    `json:"name"`               // The word itself (required).
	RootWords  []string  `json:"rootWords"`          // Words it was built from, in order.
	CategoryID string    `json:"categoryId"`         // References Category.ID.
	Category   string    `json:"category,omitempty"` // Category display name, resolved on read.
	Definition string    `json:"definition"`         // Meaning (required).
	ImageURL   string    `json:"imageUrl,omitempty"` // Optional illustration.
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"` // Set on creation, never changed.
}

// UnmarshalJSON decodes n, accepting createdAt in any of the ISO 8601
// forms that ParseTimestamp understands. A null or missing createdAt
// leaves the zero time.
func (n *Neologism) UnmarshalJSON(data []byte) error {
	type plain Neologism
	var aux struct {
		plain
		CreatedAt *string `json:"createdAt"`
	}
	aux.plain = plain(*n)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Neologism(aux.plain)
	if aux.CreatedAt != nil {
		t, err := ParseTimestamp(*aux.CreatedAt)
		if err != nil {
			return err
		}
		n.CreatedAt = t
	}
	return nil
}

// ParseTimestamp parses an ISO 8601 timestamp. A full RFC 3339 value keeps
// its offset, a date-time without offset is local time, and a bare date
// is midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("createdAt %q is not an ISO 8601 timestamp", s)
}

// Clone returns a deep copy so callers cannot alias catalog state.
func (n Neologism) Clone() Neologism {
	if n.RootWords != nil {
		n.RootWords = append([]string(nil), n.RootWords...)
	}
	return n
}

// Draft carries the caller-supplied fields of a new neologism. Status is
// required; the catalog never defaults it.
type Draft struct {
	Name       string   `json:"name"`
	RootWords  []string `json:"rootWords"`
	CategoryID string   `json:"categoryId"`
	Category   string   `json:"category,omitempty"`
	Definition string   `json:"definition"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Status     Status   `json:"status"`
}

// Draft returns the caller-editable fields of n.
func (n Neologism) Draft() Draft {
	return Draft{
		Name:       n.Name,
		RootWords:  append([]string(nil), n.RootWords...),
		CategoryID: n.CategoryID,
		Category:   n.Category,
		Definition: n.Definition,
		ImageURL:   n.ImageURL,
		Status:     n.Status,
	}
}

// ValidateDraft checks the field-level rules for a neologism: non-empty
// name, definition and category id, a recognized status, and between one
// and maxRootWords root words. A maxRootWords of zero or less uses
// DefaultMaxRootWords. Category existence is checked by the catalog.
func ValidateDraft(d Draft, maxRootWords int) error {
	if maxRootWords <= 0 {
		maxRootWords = DefaultMaxRootWords
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(d.Definition) == "" {
		return ErrInvalidDefinition
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrInvalidCategory
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	if len(d.RootWords) == 0 || len(d.RootWords) > maxRootWords {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidRootWords, len(d.RootWords), maxRootWords)
	}
	for _, w := range d.RootWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("%w: empty root word", ErrInvalidRootWords)
		}
	}
	return nil
}

// SplitRootWords splits a comma-separated list and trims each entry.
// Empty entries are dropped.
func SplitRootWords(s string) []string {
	var words []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
