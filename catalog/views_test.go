package catalog

import (
	"testing"

	"receitas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetail_Nil(t *testing.T) {
	assert.Nil(t, Detail(nil))
}

func TestDetail_IngredientShapes(t *testing.T) {
	r := &models.Recipe{
		ID:           "1",
		Name:         "Bolo",
		Ingredients:  models.Ingredients{models.Text("2 eggs"), models.Pair("200g", "flour")},
		Instructions: []string{"Mix", "Bake"},
	}
	d := Detail(r)
	require.NotNil(t, d)
	assert.Equal(t, []string{"2 eggs", "200g flour"}, d.Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, d.Instructions)
	assert.True(t, d.Placeholder)
	assert.Empty(t, d.Facts)
}

func TestDetail_OnlyPopulatedFacts(t *testing.T) {
	d := Detail(&models.Recipe{
		Name:        "Pavê",
		PrepTime:    "40 min",
		Price:       "R$ 38,90",
		StorageInfo: "Geladeira",
		ImageURL:    "https://img.example/pave.jpg",
	})
	require.NotNil(t, d)
	assert.Equal(t, []Fact{
		{"Tempo", "40 min"},
		{"Preço", "R$ 38,90"},
		{"Armazenamento", "Geladeira"},
	}, d.Facts)
	assert.False(t, d.Placeholder)
	assert.NotNil(t, d.Ingredients)
	assert.NotNil(t, d.Instructions)
}

func TestCard(t *testing.T) {
	c := Card(models.Recipe{ID: "9", Name: "Rabanada", PrepTime: "30 min", IsFavorite: true})
	assert.Equal(t, "9", c.ID)
	assert.True(t, c.Placeholder)
	assert.True(t, c.IsFavorite)
	assert.Equal(t, Author, c.Author)
	assert.Empty(t, c.Price)
}
