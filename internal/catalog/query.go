package catalog

import (
	"strings"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

// The functions in this file are pure reads over a snapshot. The remote
// catalog reuses them on fetched lists so both backings answer queries the
// same way.

// Search returns the neologisms whose name, definition or any root word
// contains query, ignoring case. An empty query returns list unfiltered.
func Search(list []types.Neologism, query string) []types.Neologism {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)
	return filter(list, func(n types.Neologism) bool {
		if strings.Contains(strings.ToLower(n.Name), q) ||
			strings.Contains(strings.ToLower(n.Definition), q) {
			return true
		}
		for _, w := range n.RootWords {
			if strings.Contains(strings.ToLower(w), q) {
				return true
			}
		}
		return false
	})
}

// FilterByCategory keeps neologisms whose CategoryID equals categoryID.
// "" and types.FilterAll return list unfiltered.
func FilterByCategory(list []types.Neologism, categoryID string) []types.Neologism {
	if categoryID == "" || categoryID == types.FilterAll {
		return list
	}
	return filter(list, func(n types.Neologism) bool { return n.CategoryID == categoryID })
}

// FilterByStatus keeps neologisms whose Status equals status exactly.
// "" and types.FilterAll return list unfiltered.
func FilterByStatus(list []types.Neologism, status string) []types.Neologism {
	if status == "" || status == types.FilterAll {
		return list
	}
	return filter(list, func(n types.Neologism) bool { return string(n.Status) == status })
}

// Featured picks the neologism to feature. The record with latestID wins
// when present, whatever its status. Otherwise pick(n) chooses among the
// n Ready records; pick must return a value in [0, n).
func Featured(list []types.Neologism, latestID string, pick func(n int) int) (types.Neologism, bool) {
	if latestID != "" {
		if n, ok := find(list, latestID); ok {
			return n, true
		}
	}
	ready := FilterByStatus(list, string(types.StatusReady))
	if len(ready) == 0 {
		return types.Neologism{}, false
	}
	return ready[pick(len(ready))], true
}

// Latest returns the first (newest) element of list.
func Latest(list []types.Neologism) (types.Neologism, bool) {
	if len(list) == 0 {
		return types.Neologism{}, false
	}
	return list[0], true
}

func find(list []types.Neologism, id string) (types.Neologism, bool) {
	for _, n := range list {
		if n.ID == id {
			return n, true
		}
	}
	return types.Neologism{}, false
}

func filter(list []types.Neologism, keep func(types.Neologism) bool) []types.Neologism {
	out := []types.Neologism{}
	for _, n := range list {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
