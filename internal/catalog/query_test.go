package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/coinage/pkg/types"
)

func TestFeatured(t *testing.T) {
	list := SeedNeologisms()
	first := func(int) int { return 0 }

	t.Run("latest id wins even when not ready", func(t *testing.T) {
		n, ok := Featured(list, "4", first)
		assert.True(t, ok)
		assert.Equal(t, "Infodemic", n.Name)
	})

	t.Run("stale latest id falls back to ready records", func(t *testing.T) {
		n, ok := Featured(list, "gone", first)
		assert.True(t, ok)
		assert.Equal(t, types.StatusReady, n.Status)
	})

	t.Run("nothing ready", func(t *testing.T) {
		_, ok := Featured(FilterByStatus(list, string(types.StatusDraft)), "", first)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := Featured(nil, "", first)
		assert.False(t, ok)
	})
}

func TestLatest(t *testing.T) {
	_, ok := Latest(nil)
	assert.False(t, ok)

	n, ok := Latest(SeedNeologisms())
	assert.True(t, ok)
	assert.Equal(t, "Doomscrolling", n.Name)
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	list := SeedNeologisms()

	byDefinition := Search(list, "WORKSHOP")
	assert.Len(t, byDefinition, 1)
	assert.Equal(t, "Webinar", byDefinition[0].Name)

	byRootWord := Search(list, "epidem")
	assert.Len(t, byRootWord, 1)
	assert.Equal(t, "Infodemic", byRootWord[0].Name)

	assert.Len(t, Search(list, ""), len(list))
	assert.NotNil(t, Search(list, "no such thing"))
}

func TestSeedDataIsFresh(t *testing.T) {
	a := SeedNeologisms()
	a[0].Name = "changed"
	assert.Equal(t, "Doomscrolling", SeedNeologisms()[0].Name)
	assert.Len(t, SeedCategories(), 6)
}
