package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRefObjectForm(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "c1", "name": "Silk", "slug": "silk"}`), &ref))

	assert.Equal(t, "c1", ref.ID)
	assert.Equal(t, "Silk", ref.Name)
	assert.Equal(t, "silk", ref.Slug)
	assert.Equal(t, "Silk", ref.DisplayName())
}

func TestCategoryRefBareSlugForm(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`"cotton"`), &ref))

	assert.Equal(t, "cotton", ref.Slug)
	assert.Empty(t, ref.ID)
	assert.Equal(t, "cotton", ref.DisplayName())
}

func TestCategoryRefNull(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`null`), &ref))
	assert.True(t, ref.IsZero())
}

func TestCategoryRefMatchesSlugCaseInsensitive(t *testing.T) {
	ref := CategoryRef{Slug: "Silk"}
	assert.True(t, ref.MatchesSlug("silk"))
	assert.True(t, ref.MatchesSlug("SILK"))
	assert.False(t, ref.MatchesSlug("cotton"))
}

func TestProductLegacyIDAlias(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "p1", "name": "Kanchipuram", "price": 4999}`), &p))
	assert.Equal(t, "p1", p.ID)

	// A modern id wins over the alias.
	var q Product
	require.NoError(t, json.Unmarshal([]byte(`{"id": "new", "_id": "old"}`), &q))
	assert.Equal(t, "new", q.ID)
}

func TestTemplateLegacyAliases(t *testing.T) {
	var tpl ProductTemplate
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "t1", "templateName": "festival", "productName": "Kanchipuram"}`), &tpl))

	assert.Equal(t, "t1", tpl.ID)
	assert.Equal(t, "festival", tpl.TemplateName)
	assert.Equal(t, "Kanchipuram", tpl.Name)
}

func TestNewWishlistEntrySnapshot(t *testing.T) {
	p := Product{
		ID:        "p1",
		Name:      "Kanchipuram",
		Price:     4999,
		MainImage: "https://cdn.example.com/p1.jpg",
		Category:  CategoryRef{Name: "Silk", Slug: "silk"},
	}

	e := NewWishlistEntry(p)
	assert.Equal(t, "p1", e.ID)
	assert.Equal(t, "Kanchipuram", e.Name)
	assert.Equal(t, 4999.0, e.Price)
	assert.Equal(t, "https://cdn.example.com/p1.jpg", e.Image)
	assert.Equal(t, "Silk", e.Category, "snapshot carries the display name, not the slug")
}
