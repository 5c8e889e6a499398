package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receitas/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreStore keeps recipes as documents in one collection; the document
// id is the recipe id.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = "recipes"
	}
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	iter := s.client.Collection(s.collection).OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	recipes := []models.Recipe{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		r, err := recipeFromDocument(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func (s *FirestoreStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "is_favorite", Value: favorite},
	})
	return err
}

func recipeFromDocument(id string, data map[string]any) (models.Recipe, error) {
	r := models.Recipe{ID: id}
	r.Name, _ = data["name"].(string)
	ingredients, err := models.IngredientsFromAny(data["ingredients"])
	if err != nil {
		return r, fmt.Errorf("recipe %s: %w", id, err)
	}
	r.Ingredients = ingredients
	if steps, ok := data["instructions"].([]any); ok {
		for _, s := range steps {
			if str, ok := s.(string); ok {
				r.Instructions = append(r.Instructions, str)
			}
		}
	}
	r.PrepTime, _ = data["prep_time"].(string)
	r.Servings, _ = data["servings"].(string)
	r.StorageInfo, _ = data["storage_info"].(string)
	r.Price, _ = data["price"].(string)
	r.ImageURL, _ = data["image_url"].(string)
	r.IsFavorite, _ = data["is_favorite"].(bool)
	r.CreatedAt, _ = data["created_at"].(time.Time)
	r.Normalize()
	return r, nil
}
