package catalog

import "receitas/models"

const (
	Brand    = "Receitas da Done Nê"
	Author   = "Done Nê"
	HeroHead = "Suas Receitas Especiais 🎄"
	HeroSub  = "Organize, compartilhe e prepare delícias com amor"
	// AddRecipeLabel is shown on the add-recipe control, which has no action.
	AddRecipeLabel    = "Adicionar Nova Receita"
	SearchPlaceholder = "Buscar por receita ou ingrediente..."
	FavoritesLabel    = "❤️ Favoritas"
)

// CardView is what a recipe card shows.
type CardView struct {
	ID          string
	Name        string
	PrepTime    string
	Price       string
	ImageURL    string
	Placeholder bool // no image_url; the surface shows its bundled image
	IsFavorite  bool
	Author      string
}

func Card(r models.Recipe) CardView {
	return CardView{
		ID:          r.ID,
		Name:        r.Name,
		PrepTime:    r.PrepTime,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Placeholder: r.ImageURL == "",
		IsFavorite:  r.IsFavorite,
		Author:      Author,
	}
}

// Fact is one populated metadata field of the detail view.
type Fact struct {
	Label string
	Value string
}

// DetailView is the modal content for one recipe.
type DetailView struct {
	ID           string
	Name         string
	ImageURL     string
	Placeholder  bool
	Facts        []Fact
	Ingredients  []string
	Instructions []string
}

// Detail builds the modal content; nil in, nil out.
func Detail(r *models.Recipe) *DetailView {
	if r == nil {
		return nil
	}
	d := &DetailView{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.ImageURL,
		Placeholder:  r.ImageURL == "",
		Facts:        []Fact{},
		Ingredients:  r.Ingredients.Lines(),
		Instructions: append([]string{}, r.Instructions...),
	}
	for _, f := range []Fact{
		{"Tempo", r.PrepTime},
		{"Rendimento", r.Servings},
		{"Preço", r.Price},
		{"Armazenamento", r.StorageInfo},
	} {
		if f.Value != "" {
			d.Facts = append(d.Facts, f)
		}
	}
	return d
}
