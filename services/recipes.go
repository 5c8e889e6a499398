package services

import (
	"context"
	"encoding/json"
	"fmt"

	"receitas/db"
	"receitas/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PGStore reads and updates the recipes table over pgx. A nil pool means db.Pool.
type PGStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPGStore(pool *pgxpool.Pool, log *zap.Logger) *PGStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PGStore{pool: pool, log: log}
}

func (s *PGStore) conn() *pgxpool.Pool {
	if s.pool != nil {
		return s.pool
	}
	return db.Pool
}

func (s *PGStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	pool := s.conn()
	if pool == nil {
		return nil, fmt.Errorf("database not initialised")
	}
	rows, err := pool.Query(ctx, `
		SELECT id::text, name, COALESCE(ingredients, '[]'::jsonb), COALESCE(instructions, '{}'),
			prep_time, servings, storage_info, price, image_url,
			is_favorite, created_at
		FROM recipes
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func scanRecipe(row pgx.Row) (models.Recipe, error) {
	var (
		r                                           models.Recipe
		ingredientsJSON                             []byte
		prepTime, servings, storage, price, imgURL *string
	)
	err := row.Scan(&r.ID, &r.Name, &ingredientsJSON, &r.Instructions,
		&prepTime, &servings, &storage, &price, &imgURL,
		&r.IsFavorite, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	if len(ingredientsJSON) > 0 {
		if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
			return r, fmt.Errorf("recipe %s: %w", r.ID, err)
		}
	}
	r.PrepTime = deref(prepTime)
	r.Servings = deref(servings)
	r.StorageInfo = deref(storage)
	r.Price = deref(price)
	r.ImageURL = deref(imgURL)
	r.Normalize()
	return r, nil
}

func (s *PGStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	pool := s.conn()
	if pool == nil {
		return fmt.Errorf("database not initialised")
	}
	tag, err := pool.Exec(ctx, `UPDATE recipes SET is_favorite = $1 WHERE id::text = $2`, favorite, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		s.log.Warn("favorite update matched no rows", zap.String("id", id))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
