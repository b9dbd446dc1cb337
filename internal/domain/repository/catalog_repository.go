package repository

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// CatalogRepository catálogo local autoritativo. Solo lectura desde el motor de menú.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	ListDishes(ctx context.Context) ([]entity.Dish, error)
}
