package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/menu-engine/internal/application/dto"
	"github.com/jhoicas/menu-engine/internal/application/order"
)

// OrderService ciclo de vida de pedidos. Lo implementa *order.UseCase.
type OrderService interface {
	ValidateStock(ctx context.Context, items []order.ItemInput) (*dto.ValidateStockResponse, error)
	CreateOrderFromRequest(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error)
	CancelOrder(ctx context.Context, orderID, userID string) error
	GetOrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID, status, userID string) (*dto.OrderStatusResponse, error)
	Ticket(ctx context.Context, orderID string) ([]byte, error)
}

// OrderHandler rutas de pedidos: validación y creación desde la mesa, gestión desde cozinha/sala.
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// ValidateStock godoc
// @Summary      Validar stock de un carrito
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateStockRequest  true  "Líneas a validar"
// @Success      200   {object}  dto.ValidateStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/validate [post]
func (h *OrderHandler) ValidateStock(c *fiber.Ctx) error {
	var in dto.ValidateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]order.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, order.ItemInput{DishID: it.DishID, Quantity: it.Quantity, Notes: it.Notes})
	}
	out, err := h.svc.ValidateStock(c.UserContext(), items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Description  Descuenta stock y envía el pedido a cocina en una sola transacción.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TableID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "table_id e items son requeridos"})
	}
	out, err := h.svc.CreateOrderFromRequest(c.UserContext(), GetStaffID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Status godoc
// @Summary      Estado de cocina de un pedido
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [get]
func (h *OrderHandler) Status(c *fiber.Ctx) error {
	out, err := h.svc.GetOrderStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido y restaurar stock
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.svc.CancelOrder(c.UserContext(), c.Params("id"), GetStaffID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateItemStatus godoc
// @Summary      Avanzar el estado de un ítem en cocina
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del pedido"
// @Param        itemId  path  string  true  "ID del ítem"
// @Param        body    body  dto.UpdateItemStatusRequest  true  "Nuevo estado"
// @Success      200     {object}  dto.OrderStatusResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items/{itemId} [patch]
func (h *OrderHandler) UpdateItemStatus(c *fiber.Ctx) error {
	var in dto.UpdateItemStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.svc.UpdateItemStatus(c.UserContext(), c.Params("id"), c.Params("itemId"), in.Status, GetStaffID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Ticket godoc
// @Summary      Ticket de cocina en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ticket [get]
func (h *OrderHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.svc.Ticket(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(pdf)
}
