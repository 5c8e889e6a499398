package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"receitas/models"

	"github.com/google/uuid"
)

// MemoryStore keeps recipes in process. Errors set with FailList/FailUpdate are
// returned by the next calls until cleared with nil.
type MemoryStore struct {
	mu        sync.Mutex
	recipes   []models.Recipe
	listErr   error
	updateErr error
	updates   int
}

func NewMemoryStore(recipes ...models.Recipe) *MemoryStore {
	m := &MemoryStore{}
	for _, r := range recipes {
		m.Add(r)
	}
	return m
}

// Add stores a copy of r, filling id and created_at when empty.
func (m *MemoryStore) Add(r models.Recipe) models.Recipe {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.Normalize()
	m.mu.Lock()
	m.recipes = append(m.recipes, r)
	m.mu.Unlock()
	return r
}

func (m *MemoryStore) FailList(err error) {
	m.mu.Lock()
	m.listErr = err
	m.mu.Unlock()
}

func (m *MemoryStore) FailUpdate(err error) {
	m.mu.Lock()
	m.updateErr = err
	m.mu.Unlock()
}

// Updates counts SetFavorite calls that reached the store.
func (m *MemoryStore) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

func (m *MemoryStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Recipe, len(m.recipes))
	copy(out, m.recipes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SetFavorite updates the row if present; like an UPDATE ... WHERE id, a
// missing row is not an error.
func (m *MemoryStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			m.recipes[i].IsFavorite = favorite
		}
	}
	return nil
}

// Get returns the stored recipe with the given id.
func (m *MemoryStore) Get(id string) (models.Recipe, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return models.Recipe{}, false
}
