package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/menu-engine/internal/application/dto"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
)

// MenuSummary resumen del snapshot para GET /api/menu.
func (e *Engine) MenuSummary() (*dto.MenuSummaryResponse, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, domain.ErrMenuEmpty
	}
	return &dto.MenuSummaryResponse{
		Version:         s.Version,
		Source:          s.Source,
		RestaurantName:  s.Settings.Name,
		RestaurantLogo:  s.Settings.Logo,
		TotalDishes:     len(s.Dishes),
		TotalCategories: len(s.Categories),
		Counts:          s.Counts().AsMap(),
		Unmatched:       len(s.Resolution.Unmatched),
		BuiltAt:         s.BuiltAt,
	}, nil
}

// CategoryList categorías saneadas con su conteo, en el orden de la fuente.
func (e *Engine) CategoryList() (*dto.CategoryListResponse, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, domain.ErrMenuEmpty
	}
	counts := s.Counts()
	items := make([]dto.CategoryResponse, 0, len(s.Categories))
	for _, c := range s.Categories {
		items = append(items, toCategoryResponse(c, counts.Get(c.ID)))
	}
	return &dto.CategoryListResponse{Items: items, All: counts.All}, nil
}

// CategoryTree jerarquía de categorías con conteos agregados.
func (e *Engine) CategoryTree() ([]dto.CategoryNodeResponse, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, domain.ErrMenuEmpty
	}
	return toNodeResponses(s.Hierarchy.Roots), nil
}

// DishList platos de una categoría (o TODOS) filtrados por búsqueda.
func (e *Engine) DishList(categoryID, search string) (*dto.DishListResponse, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, domain.ErrMenuEmpty
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		categoryID = menu.AllKey
	}
	dishes := menu.FilterDishes(s.Dishes, s.Categories, s.Resolution,
		menu.DishQuery{CategoryID: categoryID, Search: search}, e.collation.Less())
	items := make([]dto.DishResponse, 0, len(dishes))
	for _, d := range dishes {
		items = append(items, toDishResponse(d, s.AssignedCategory(d.ID)))
	}
	return &dto.DishListResponse{Category: categoryID, Search: search, Items: items, Total: len(items)}, nil
}

// DishByID detalle de un plato.
func (e *Engine) DishByID(id string) (*dto.DishResponse, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, domain.ErrMenuEmpty
	}
	d, ok := s.Dish(strings.TrimSpace(id))
	if !ok {
		return nil, domain.ErrNotFound
	}
	resp := toDishResponse(d, s.AssignedCategory(d.ID))
	return &resp, nil
}

// SyncStatusView estado de sincronización para GET /api/menu/status.
func (e *Engine) SyncStatusView() dto.SyncStatusResponse {
	st := e.Status()
	out := dto.SyncStatusResponse{
		State:         st.State,
		Retries:       st.Retries,
		Source:        st.Source,
		LastErrorKind: string(st.LastErrorKind()),
	}
	if s := e.snap.Load(); s != nil {
		out.Version = s.Version
	}
	if st.LastError != nil {
		var se *domain.SourceError
		if errors.As(st.LastError, &se) {
			out.LastError = se.Message()
		} else {
			out.LastError = st.LastError.Error()
		}
	}
	if !st.LastSuccessAt.IsZero() {
		t := st.LastSuccessAt
		out.LastSuccessAt = &t
	}
	if !st.LastErrorAt.IsZero() {
		t := st.LastErrorAt
		out.LastErrorAt = &t
	}
	return out
}

func toCategoryResponse(c entity.Category, count int) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:         c.ID,
		OriginalID: c.OriginalID,
		Name:       c.Name,
		ParentID:   c.ParentID,
		Icon:       c.Icon,
		SortOrder:  c.SortOrder,
		Modified:   c.IsModified,
		Synthetic:  c.Synthetic,
		Count:      count,
	}
}

func toNodeResponses(nodes []*entity.CategoryNode) []dto.CategoryNodeResponse {
	out := make([]dto.CategoryNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryNodeResponse{
			CategoryResponse: toCategoryResponse(n.Category, n.DirectCount),
			AggregateCount:   n.AggregateCount,
			ShallowTotal:     menu.ShallowTotal(n),
			Children:         toNodeResponses(n.Children),
		})
	}
	return out
}

func toDishResponse(d entity.Dish, resolved string) dto.DishResponse {
	return dto.DishResponse{
		ID:                 d.ID,
		Name:               d.Name,
		Description:        d.Description,
		Price:              d.Price,
		CategoryID:         d.CategoryID,
		ResolvedCategoryID: resolved,
		Image:              d.Image,
		Available:          d.Available,
		TaxCode:            d.TaxCode,
		TaxPercentage:      d.TaxPercentage,
	}
}

// RefreshNow fuerza un refresco con reintentos y devuelve el resumen resultante.
func (e *Engine) RefreshNow(ctx context.Context) (*dto.MenuSummaryResponse, error) {
	if _, err := e.RefreshWithRetry(ctx); err != nil {
		return nil, err
	}
	return e.MenuSummary()
}
