package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/menu-engine/internal/application/dto"
)

// MenuService vistas del snapshot publicado. Lo implementa *menu.Engine.
type MenuService interface {
	MenuSummary() (*dto.MenuSummaryResponse, error)
	CategoryList() (*dto.CategoryListResponse, error)
	CategoryTree() ([]dto.CategoryNodeResponse, error)
	DishList(categoryID, search string) (*dto.DishListResponse, error)
	DishByID(id string) (*dto.DishResponse, error)
	SyncStatusView() dto.SyncStatusResponse
	RefreshNow(ctx context.Context) (*dto.MenuSummaryResponse, error)
}

// MenuHandler rutas públicas del menú digital y refresco manual (staff).
type MenuHandler struct {
	svc MenuService
}

// NewMenuHandler construye el handler.
func NewMenuHandler(svc MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

// Summary godoc
// @Summary      Resumen del menú publicado
// @Tags         menu
// @Produce      json
// @Success      200  {object}  dto.MenuSummaryResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/menu [get]
func (h *MenuHandler) Summary(c *fiber.Ctx) error {
	out, err := h.svc.MenuSummary()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Listar categorías con conteo de platos
// @Tags         menu
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/menu/categories [get]
func (h *MenuHandler) Categories(c *fiber.Ctx) error {
	out, err := h.svc.CategoryList()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CategoryTree godoc
// @Summary      Árbol de categorías con conteos agregados
// @Tags         menu
// @Produce      json
// @Success      200  {array}   dto.CategoryNodeResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/menu/categories/tree [get]
func (h *MenuHandler) CategoryTree(c *fiber.Ctx) error {
	out, err := h.svc.CategoryTree()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dishes godoc
// @Summary      Listar platos de una categoría
// @Tags         menu
// @Produce      json
// @Param        category  query  string  false  "ID de categoría o TODOS"
// @Param        q         query  string  false  "Búsqueda por nombre o descripción"
// @Param        limit     query  int     false  "Límite"   default(0)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DishListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/menu/dishes [get]
func (h *MenuHandler) Dishes(c *fiber.Ctx) error {
	out, err := h.svc.DishList(c.Query("category"), strings.TrimSpace(c.Query("q")))
	if err != nil {
		return writeError(c, err)
	}
	// Sin limit se devuelve la lista completa; el conteo total no cambia al paginar.
	if c.Query("limit") != "" || c.Query("offset") != "" {
		page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
		page.DefaultPage()
		start := min(page.Offset, len(out.Items))
		end := min(start+page.Limit, len(out.Items))
		out.Items = out.Items[start:end]
		out.Page = &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: out.Total}
	}
	return c.JSON(out)
}

// Dish godoc
// @Summary      Obtener plato por ID
// @Tags         menu
// @Produce      json
// @Param        id   path  string  true  "ID del plato"
// @Success      200  {object}  dto.DishResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu/dishes/{id} [get]
func (h *MenuHandler) Dish(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.svc.DishByID(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Estado de sincronización con el backend remoto
// @Tags         menu
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/menu/status [get]
func (h *MenuHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.svc.SyncStatusView())
}

// Refresh godoc
// @Summary      Forzar recarga del menú
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MenuSummaryResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/menu/refresh [post]
func (h *MenuHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.svc.RefreshNow(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
