package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Recipe is a row from the recipes table.
type Recipe struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Ingredients  Ingredients `json:"ingredients"`
	Instructions []string    `json:"instructions"`
	PrepTime     string      `json:"prep_time,omitempty"`
	Servings     string      `json:"servings,omitempty"`
	StorageInfo  string      `json:"storage_info,omitempty"`
	Price        string      `json:"price,omitempty"`
	ImageURL     string      `json:"image_url,omitempty"`
	IsFavorite   bool        `json:"is_favorite"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Normalize replaces nil sequences with empty ones so views never see nil.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = Ingredients{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
}

// SearchText is the serialized form of the ingredients, as stored.
func (r Recipe) SearchText() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Ingredients); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Ingredient is either a bare line of text (Plain) or a quantity/item pair.
type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity,omitempty"`
	Plain    bool   `json:"-"`
}

// Text returns a plain ingredient.
func Text(s string) Ingredient { return Ingredient{Item: s, Plain: true} }

// Pair returns a structured ingredient.
func Pair(quantity, item string) Ingredient { return Ingredient{Item: item, Quantity: quantity} }

// Line is the single display line for the ingredient.
func (i Ingredient) Line() string {
	if i.Plain {
		return i.Item
	}
	return strings.TrimSpace(i.Quantity + " " + i.Item)
}

// Ingredients keeps the stored shape: plain entries round-trip as JSON strings,
// pairs as {"item","quantity"} objects.
type Ingredients []Ingredient

// Lines returns the display line of every ingredient in order.
func (in Ingredients) Lines() []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.Line())
	}
	return out
}

func (in Ingredients) MarshalJSON() ([]byte, error) {
	if in == nil {
		return []byte("[]"), nil
	}
	raw := make([]any, 0, len(in))
	for _, i := range in {
		if i.Plain {
			raw = append(raw, i.Item)
			continue
		}
		raw = append(raw, struct {
			Item     string `json:"item"`
			Quantity string `json:"quantity,omitempty"`
		}{i.Item, i.Quantity})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (in *Ingredients) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	out := make(Ingredients, 0, len(raw))
	for n, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 || bytes.Equal(r, []byte("null")) {
			continue
		}
		if r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return fmt.Errorf("ingredient %d: %w", n, err)
			}
			out = append(out, Text(s))
			continue
		}
		var p struct {
			Item     string          `json:"item"`
			Quantity json.RawMessage `json:"quantity"`
		}
		if err := json.Unmarshal(r, &p); err != nil {
			return fmt.Errorf("ingredient %d: %w", n, err)
		}
		out = append(out, Pair(rawScalar(p.Quantity), p.Item))
	}
	*in = out
	return nil
}

// rawScalar renders a JSON scalar as text; quantities are sometimes stored as numbers.
func rawScalar(r json.RawMessage) string {
	r = bytes.TrimSpace(r)
	if len(r) == 0 || bytes.Equal(r, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	return string(r)
}

// IngredientsFromAny decodes the generic shape document stores hand back
// ([]any of string or map[string]any).
func IngredientsFromAny(v any) (Ingredients, error) {
	if v == nil {
		return Ingredients{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("ingredients: unexpected type %T", v)
	}
	out := make(Ingredients, 0, len(list))
	for n, e := range list {
		switch x := e.(type) {
		case nil:
		case string:
			out = append(out, Text(x))
		case map[string]any:
			item, _ := x["item"].(string)
			var qty string
			if q, ok := x["quantity"]; ok && q != nil {
				qty = fmt.Sprint(q)
			}
			out = append(out, Pair(qty, item))
		default:
			return nil, fmt.Errorf("ingredient %d: unexpected type %T", n, e)
		}
	}
	return out, nil
}
