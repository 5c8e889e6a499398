package catalog

import (
	"context"
	"errors"
	"sync"

	"receitas/models"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	EmptyNoMatch  = "Nenhuma receita encontrada"
	EmptyNoRecipe = "Nenhuma receita ainda. Adicione sua primeira receita!"
)

// ErrUnknownRecipe is returned when an id is not in the loaded list.
var ErrUnknownRecipe = errors.New("recipe not in list")

// Page owns the catalog state of one viewer: the loaded list, the search
// criteria, the computed view and the recipe open in the detail view.
type Page struct {
	store    RecipeStore
	notifier Notifier
	tag      language.Tag
	log      *zap.Logger

	mount sync.Once

	mu       sync.Mutex
	recipes  []models.Recipe
	criteria Criteria
	visible  []models.Recipe
	selected *models.Recipe
	loaded   bool
}

type Option func(*Page)

func WithNotifier(n Notifier) Option { return func(p *Page) { p.notifier = n } }

func WithLanguage(tag language.Tag) Option { return func(p *Page) { p.tag = tag } }

func WithLogger(l *zap.Logger) Option { return func(p *Page) { p.log = l } }

func NewPage(store RecipeStore, opts ...Option) *Page {
	p := &Page{
		store:    store,
		notifier: NewInbox(),
		tag:      language.BrazilianPortuguese,
		log:      zap.NewNop(),
		criteria: Criteria{Sort: SortByName},
		recipes:  []models.Recipe{},
		visible:  []models.Recipe{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Mount loads the list the first time it is called; later calls do nothing.
func (p *Page) Mount(ctx context.Context) {
	p.mount.Do(func() {
		_ = p.Load(ctx)
	})
}

// Load fetches every recipe and replaces the list. On failure the list is
// left as it was and a notification carries the backend message.
func (p *Page) Load(ctx context.Context) error {
	recipes, err := p.store.ListRecipes(ctx)
	if err != nil {
		p.log.Warn("load recipes", zap.Error(err))
		p.notifier.Notify(Notification{Title: TitleLoadFailed, Description: err.Error(), Destructive: true})
		return err
	}
	list := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		r.Normalize()
		list[i] = r
	}

	p.mu.Lock()
	p.recipes = list
	p.loaded = true
	p.recompute()
	p.mu.Unlock()

	p.log.Debug("recipes loaded", zap.Int("count", len(list)))
	return nil
}

func (p *Page) SetQuery(q string) {
	p.mu.Lock()
	p.criteria.Query = q
	p.recompute()
	p.mu.Unlock()
}

func (p *Page) SetSort(k SortKey) {
	p.mu.Lock()
	p.criteria.Sort = k
	p.recompute()
	p.mu.Unlock()
}

func (p *Page) SetFavoritesOnly(on bool) {
	p.mu.Lock()
	p.criteria.FavoritesOnly = on
	p.recompute()
	p.mu.Unlock()
}

func (p *Page) ToggleFavoritesOnly() {
	p.mu.Lock()
	p.criteria.FavoritesOnly = !p.criteria.FavoritesOnly
	p.recompute()
	p.mu.Unlock()
}

// Select opens the detail view on the recipe with the given id.
func (p *Page) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(id)
	if i < 0 {
		return ErrUnknownRecipe
	}
	r := p.recipes[i]
	p.selected = &r
	return nil
}

func (p *Page) CloseDetail() {
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
}

// ToggleFavorite writes the negated flag to the backend and applies it
// locally only once the backend accepted it. Unknown ids are a no-op.
func (p *Page) ToggleFavorite(ctx context.Context, id string) error {
	p.mu.Lock()
	i := p.indexOf(id)
	if i < 0 {
		p.mu.Unlock()
		return ErrUnknownRecipe
	}
	name := p.recipes[i].Name
	target := !p.recipes[i].IsFavorite
	p.mu.Unlock()

	if err := p.store.SetFavorite(ctx, id, target); err != nil {
		p.log.Warn("update favorite", zap.String("id", id), zap.Error(err))
		p.notifier.Notify(Notification{Title: TitleFavoriteFailed, Description: err.Error(), Destructive: true})
		return err
	}

	p.mu.Lock()
	// the list may have been reloaded while the update was in flight
	if i = p.indexOf(id); i >= 0 {
		p.recipes[i].IsFavorite = target
	}
	p.recompute()
	p.mu.Unlock()

	title := TitleFavoriteAdded
	if !target {
		title = TitleFavoriteRemove
	}
	p.notifier.Notify(Notification{Title: title, Description: name})
	return nil
}

// Visible returns a copy of the displayed list.
func (p *Page) Visible() []models.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Recipe, len(p.visible))
	copy(out, p.visible)
	return out
}

// Recipe returns the loaded recipe with the given id.
func (p *Page) Recipe(id string) (models.Recipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(id); i >= 0 {
		return p.recipes[i], true
	}
	return models.Recipe{}, false
}

// HasImage reports whether a loaded recipe uses imageURL.
func (p *Page) HasImage(imageURL string) bool {
	if imageURL == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.recipes {
		if r.ImageURL == imageURL {
			return true
		}
	}
	return false
}

// Selected returns the recipe open in the detail view, or nil.
func (p *Page) Selected() *models.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return nil
	}
	r := *p.selected
	return &r
}

func (p *Page) Criteria() Criteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

func (p *Page) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// EmptyMessage is the text shown in place of the grid, "" when there are cards.
func (p *Page) EmptyMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.visible) > 0 {
		return ""
	}
	if p.criteria.Filtering() {
		return EmptyNoMatch
	}
	return EmptyNoRecipe
}

// recompute must be called with mu held.
func (p *Page) recompute() {
	p.visible = Apply(p.recipes, p.criteria, p.tag)
}

func (p *Page) indexOf(id string) int {
	for i := range p.recipes {
		if p.recipes[i].ID == id {
			return i
		}
	}
	return -1
}
