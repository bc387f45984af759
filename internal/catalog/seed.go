package catalog

import (
	"time"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

// seedDate returns midnight UTC on the given day.
func seedDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedCategories returns the categories a fresh catalog starts with.
// Each call returns a new slice.
func SeedCategories() []types.Category {
	return []types.Category{
		{ID: "1", Name: "Technology"},
		{ID: "2", Name: "Slang"},
		{ID: "3", Name: "Academic"},
		{ID: "4", Name: "Business"},
		{ID: "5", Name: "Culture"},
		{ID: "6", Name: "Science"},
	}
}

// SeedNeologisms returns the sample neologisms a fresh catalog starts with.
// Each call returns a new slice.
func SeedNeologisms() []types.Neologism {
	return []types.Neologism{
		{
			ID:         "1",
			Name:       "Doomscrolling",
			RootWords:  []string{"Doom", "Scrolling"},
			CategoryID: "1",
			Category:   "Technology",
			Definition: "The act of continuously scrolling through negative news or social media content, despite the negative effect it has on one's mental health.",
			ImageURL:   "https://images.unsplash.com/photo-1618160702438-9b02ab6515c9?auto=format&fit=crop&q=80&w=400",
			Status:     types.StatusReady,
			CreatedAt:  seedDate(2023, time.January, 15),
		},
		{
			ID:         "2",
			Name:       "Phubbing",
			RootWords:  []string{"Phone", "Snubbing"},
			CategoryID: "5",
			Category:   "Culture",
			Definition: "The practice of ignoring one's companion or companions in order to pay attention to one's phone or other mobile device.",
			Status:     types.StatusReady,
			CreatedAt:  seedDate(2023, time.February, 20),
		},
		{
			ID:         "3",
			Name:       "Nomophobia",
			RootWords:  []string{"No", "Mobile", "Phobia"},
			CategoryID: "1",
			Category:   "Technology",
			Definition: "The fear of being without or unable to use one's mobile phone.",
			ImageURL:   "https://images.unsplash.com/photo-1582562124811-c09040d0a901?auto=format&fit=crop&q=80&w=400",
			Status:     types.StatusReady,
			CreatedAt:  seedDate(2023, time.March, 10),
		},
		{
			ID:         "4",
			Name:       "Infodemic",
			RootWords:  []string{"Information", "Epidemic"},
			CategoryID: "6",
			Category:   "Science",
			Definition: "An excessive amount of information about a problem that is typically unreliable, spreads rapidly, and makes a solution more difficult to achieve.",
			Status:     types.StatusDraft,
			CreatedAt:  seedDate(2023, time.April, 5),
		},
		{
			ID:         "5",
			Name:       "Webinar",
			RootWords:  []string{"Web", "Seminar"},
			CategoryID: "4",
			Category:   "Business",
			Definition: "A presentation, lecture, or workshop that is transmitted over the web.",
			ImageURL:   "https://images.unsplash.com/photo-1472396961693-142e6e269027?auto=format&fit=crop&q=80&w=400",
			Status:     types.StatusReady,
			CreatedAt:  seedDate(2023, time.May, 12),
		},
	}
}
