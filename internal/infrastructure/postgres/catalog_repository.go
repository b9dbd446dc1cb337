package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogo local autoritativo sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListCategories todas las categorías, incluidas las inactivas (el motor decide qué publica).
func (r *CatalogRepo) ListCategories(ctx context.Context) ([]entity.Category, error) {
	query := `
		SELECT id, name, parent_id, sort_order, icon, is_active, is_visible_on_digital_menu
		FROM menu_categories
		ORDER BY sort_order, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Category, error) {
		var c entity.Category
		var parentID, icon *string
		err := row.Scan(&c.ID, &c.Name, &parentID, &c.SortOrder, &icon, &c.IsActive, &c.IsVisibleOnDigitalMenu)
		c.ParentID = deref(parentID)
		c.Icon = deref(icon)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return out, nil
}

// ListDishes todos los platos con el nombre de su categoría cuando el id coincide.
func (r *CatalogRepo) ListDishes(ctx context.Context) ([]entity.Dish, error) {
	query := `
		SELECT d.id, d.name, d.description, d.price, d.category_id,
		       COALESCE(NULLIF(d.category_name, ''), c.name), d.image_url, d.available,
		       d.stock_item_id, d.tax_code, d.tax_percentage
		FROM menu_dishes d
		LEFT JOIN menu_categories c ON c.id = d.category_id
		ORDER BY d.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Dish, error) {
		var d entity.Dish
		var description, categoryID, categoryName, image, stockItemID *string
		err := row.Scan(&d.ID, &d.Name, &description, &d.Price, &categoryID, &categoryName,
			&image, &d.Available, &stockItemID, &d.TaxCode, &d.TaxPercentage)
		d.Description = deref(description)
		d.CategoryID = deref(categoryID)
		d.CategoryName = deref(categoryName)
		d.Image = deref(image)
		d.StockItemID = deref(stockItemID)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan dishes: %w", err)
	}
	return out, nil
}
