package middlewares

import (
	"context"
	"items-api/internal/models"
)

//go:generate mockgen -source=item_store.go -destination=../mocks/item_store.go -package=mocks

type ItemStore interface {
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id int) (models.Item, error)
	Create(ctx context.Context, input models.ItemInput) (models.Item, error)
	Update(ctx context.Context, id int, input models.ItemInput) (models.Item, error)
	Delete(ctx context.Context, id int) error
}
