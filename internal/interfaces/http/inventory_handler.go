package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/menu-engine/internal/application/dto"
)

// ReplenishmentService lista de reposición. Lo implementa *inventory.ReplenishmentUseCase.
type ReplenishmentService interface {
	GenerateReplenishmentList(ctx context.Context, windowDays int) (*dto.ReplenishmentListResponse, error)
}

// InventoryHandler consultas del libro de stock (protegido).
type InventoryHandler struct {
	replenishment ReplenishmentService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment ReplenishmentService) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment}
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Devuelve las entradas de stock en o bajo su umbral mínimo con la cantidad sugerida,
//
//	ordenadas por agotamiento y consumo reciente.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana de consumo en días"  default(7)
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	if days < 0 || days > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days debe estar entre 0 y 90 (0 usa la ventana por defecto)"})
	}
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
