// Package catalog holds the recipe catalog page: the filter/sort pipeline,
// the page state that surfaces drive, and the card/detail views they render.
package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"receitas/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RecipeStore is the backend service: select every recipe newest first and
// update the favorite flag of one row.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
}

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByDate  SortKey = "date"
	SortByPrice SortKey = "price"
)

// SortKeys in the order the sort selector lists them.
var SortKeys = []SortKey{SortByName, SortByDate, SortByPrice}

// Label is the selector text for the key.
func (k SortKey) Label() string {
	switch k {
	case SortByDate:
		return "Mais recentes"
	case SortByPrice:
		return "Preço"
	default:
		return "Nome (A-Z)"
	}
}

// ParseSortKey maps selector values to a key; anything unknown sorts by name.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate
	case SortByPrice:
		return SortByPrice
	default:
		return SortByName
	}
}

// Criteria are the search bar inputs.
type Criteria struct {
	Query         string
	Sort          SortKey
	FavoritesOnly bool
}

// Filtering reports whether the criteria narrow the list.
func (c Criteria) Filtering() bool {
	return c.Query != "" || c.FavoritesOnly
}

// ParsePrice reads display prices like "R$ 10,50": everything but digits and
// commas is dropped, the first comma is the decimal separator, and anything
// unparsable counts as zero.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	num := strings.Replace(b.String(), ",", ".", 1)
	// only the leading number counts, so "1,234,56" reads as 1.234
	if i := strings.IndexByte(num, ','); i >= 0 {
		num = num[:i]
	}
	if num == "" || num == "." {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return v
}

// Apply computes the displayed list. The input slice is never modified.
func Apply(recipes []models.Recipe, c Criteria, tag language.Tag) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	query := strings.ToLower(c.Query)
	for _, r := range recipes {
		if c.FavoritesOnly && !r.IsFavorite {
			continue
		}
		if query != "" && !matches(r, query) {
			continue
		}
		out = append(out, r)
	}

	switch c.Sort {
	case SortByDate:
		// retrieval order is already newest first
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return ParsePrice(out[i].Price) < ParsePrice(out[j].Price)
		})
	default:
		coll := collate.New(tag)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

func matches(r models.Recipe, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(r.Name), lowerQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(r.SearchText()), lowerQuery)
}
