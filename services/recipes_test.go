package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"receitas/db"
	"receitas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	now := time.Now()
	m := NewMemoryStore(
		models.Recipe{Name: "old", CreatedAt: now.Add(-time.Hour)},
		models.Recipe{Name: "new", CreatedAt: now},
		models.Recipe{Name: "mid", CreatedAt: now.Add(-time.Minute)},
	)
	got, err := m.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{got[0].Name, got[1].Name, got[2].Name})
	for _, r := range got {
		assert.NotEmpty(t, r.ID)
		assert.NotNil(t, r.Ingredients)
		assert.NotNil(t, r.Instructions)
		assert.False(t, r.IsFavorite)
	}
}

func TestMemoryStore_SetFavorite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	r := m.Add(models.Recipe{Name: "Rabanada"})

	require.NoError(t, m.SetFavorite(ctx, r.ID, true))
	got, ok := m.Get(r.ID)
	require.True(t, ok)
	assert.True(t, got.IsFavorite)

	// unknown rows are not an error, like an UPDATE matching nothing
	assert.NoError(t, m.SetFavorite(ctx, "missing", true))
	assert.Equal(t, 2, m.Updates())
}

func TestMemoryStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(models.Recipe{Name: "Pavê"})
	boom := errors.New("connection refused")

	m.FailList(boom)
	_, err := m.ListRecipes(ctx)
	assert.ErrorIs(t, err, boom)
	m.FailList(nil)
	_, err = m.ListRecipes(ctx)
	assert.NoError(t, err)

	m.FailUpdate(boom)
	assert.ErrorIs(t, m.SetFavorite(ctx, "x", true), boom)
}

func TestDemoRecipes(t *testing.T) {
	now := time.Now()
	recipes := DemoRecipes(now)
	require.NotEmpty(t, recipes)
	for _, r := range recipes {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Instructions)
		assert.False(t, r.CreatedAt.After(now))
	}
}

func TestRecipeFromDocument(t *testing.T) {
	created := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)
	r, err := recipeFromDocument("abc", map[string]any{
		"name":         "Bolo",
		"ingredients":  []any{"2 eggs", map[string]any{"item": "flour", "quantity": "200g"}},
		"instructions": []any{"Misture", "Asse"},
		"price":        "R$ 10,50",
		"is_favorite":  true,
		"created_at":   created,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "Bolo", r.Name)
	assert.Equal(t, []string{"2 eggs", "200g flour"}, r.Ingredients.Lines())
	assert.Equal(t, []string{"Misture", "Asse"}, r.Instructions)
	assert.Equal(t, "R$ 10,50", r.Price)
	assert.Empty(t, r.PrepTime)
	assert.True(t, r.IsFavorite)
	assert.Equal(t, created, r.CreatedAt)

	empty, err := recipeFromDocument("e", map[string]any{"name": "Vazio"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Ingredients)
	assert.NotNil(t, empty.Instructions)

	_, err = recipeFromDocument("bad", map[string]any{"ingredients": "flour"})
	assert.Error(t, err)
}

func TestDeref(t *testing.T) {
	s := "30 min"
	assert.Equal(t, "30 min", deref(&s))
	assert.Equal(t, "", deref(nil))
}

// Integration test for the Postgres store (requires DB). Skip if db.Pool is nil or -short.
func TestPGStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping recipes integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping recipes integration test: no DB pool")
	}
	ctx := context.Background()
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO recipes (name, ingredients, instructions)
		VALUES ('integration test', '["2 eggs", {"item": "flour", "quantity": "200g"}]', ARRAY['mix'])
		RETURNING id::text`).Scan(&id)
	require.NoError(t, err)
	defer func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM recipes WHERE id::text = $1`, id)
	}()

	s := NewPGStore(nil, nil)
	require.NoError(t, s.SetFavorite(ctx, id, true))
	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	var found *models.Recipe
	for i := range recipes {
		if recipes[i].ID == id {
			found = &recipes[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.IsFavorite)
	assert.Equal(t, []string{"2 eggs", "200g flour"}, found.Ingredients.Lines())
}

func TestPGStore_NoPool(t *testing.T) {
	if db.Pool != nil {
		t.Skip("pool configured")
	}
	s := NewPGStore(nil, nil)
	_, err := s.ListRecipes(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.SetFavorite(context.Background(), "x", true))
}
