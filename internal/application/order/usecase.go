// Package order gestiona el ciclo de vida de los pedidos de mesa: validación de stock, creación
// atómica con descuento del libro de stock, progreso en cocina, cancelación con restauración y ticket.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/menu-engine/internal/application/dto"
	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

// UseCase casos de uso del pedido. Los descuentos de stock se serializan por ítem de stock dentro del
// proceso y se confirman con compare-and-decrement en la BD, así dos pedidos concurrentes no pueden
// dejar el libro en negativo.
type UseCase struct {
	menu           MenuReader
	stockRepo      repository.StockRepository
	orderRepo      repository.OrderRepository
	auditRepo      repository.AuditRepository
	txRunner       TxRunner
	tickets        ports.TicketRenderer
	restaurantName string
	log            *logger.Logger

	stockLocks *keyedMutex
	orderLocks *keyedMutex
	now        func() time.Time
}

// Deps dependencias del caso de uso. Tickets y AuditRepo son opcionales.
// RestaurantName se usa en el ticket cuando el menú publicado no trae nombre.
type Deps struct {
	Menu           MenuReader
	StockRepo      repository.StockRepository
	OrderRepo      repository.OrderRepository
	AuditRepo      repository.AuditRepository
	TxRunner       TxRunner
	Tickets        ports.TicketRenderer
	RestaurantName string
	Log            *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		menu:           d.Menu,
		stockRepo:      d.StockRepo,
		orderRepo:      d.OrderRepo,
		auditRepo:      d.AuditRepo,
		txRunner:       d.TxRunner,
		tickets:        d.Tickets,
		restaurantName: d.RestaurantName,
		log:            log.Component("orders"),
		stockLocks:     newKeyedMutex(),
		orderLocks:     newKeyedMutex(),
		now:            time.Now,
	}
}

// ItemInput línea solicitada.
type ItemInput struct {
	DishID   string
	Quantity int
	Notes    string
}

// CreateOrderInput entrada para crear un pedido.
type CreateOrderInput struct {
	TableID      string
	CustomerName string
	UserID       string // vacío para pedidos hechos desde la mesa
	Items        []ItemInput
}

// ── Validación de stock ───────────────────────────────────────────────────────

// ValidateStock comprueba cada línea contra el libro de stock. Platos desconocidos, sin vínculo de
// stock o cuyo registro no existe no bloquean (se consideran ilimitados).
func (uc *UseCase) ValidateStock(ctx context.Context, items []ItemInput) (*dto.ValidateStockResponse, error) {
	missing, err := uc.checkStock(ctx, uc.stockRepo, items)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateStockResponse{Success: len(missing) == 0, MissingItems: missing}, nil
}

func (uc *UseCase) checkStock(ctx context.Context, stockRepo repository.StockRepository, items []ItemInput) ([]string, error) {
	var missing []string
	for _, it := range items {
		dish, ok := uc.menu.Dish(it.DishID)
		if !ok || !dish.HasStockLink() {
			continue
		}
		st, err := stockRepo.Get(ctx, dish.StockItemID)
		if err != nil {
			return nil, fmt.Errorf("consultar stock %s: %w", dish.StockItemID, err)
		}
		if st == nil {
			continue
		}
		if st.Quantity < it.Quantity {
			missing = append(missing, missingItem(dish.Name, st.Quantity))
		}
	}
	return missing, nil
}

func missingItem(name string, available int) string {
	return fmt.Sprintf("%s (Disponível: %d)", name, available)
}

// ── Creación ──────────────────────────────────────────────────────────────────

// CreateOrderFromRequest adapta el body HTTP al caso de uso.
func (uc *UseCase) CreateOrderFromRequest(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	input := CreateOrderInput{TableID: in.TableID, CustomerName: in.CustomerName, UserID: userID}
	for _, it := range in.Items {
		input.Items = append(input.Items, ItemInput{DishID: it.DishID, Quantity: it.Quantity, Notes: it.Notes})
	}
	return uc.CreateOrder(ctx, input)
}

// OrderFromCart construye la entrada de creación con las líneas del carrito en orden de inserción.
func OrderFromCart(tableID, customerName string, cart *entity.Cart) CreateOrderInput {
	in := CreateOrderInput{TableID: tableID, CustomerName: customerName}
	for _, id := range cart.Lines() {
		e, _ := cart.Get(id)
		in.Items = append(in.Items, ItemInput{DishID: id, Quantity: e.Quantity, Notes: e.Notes})
	}
	return in
}

// CreateOrder valida, bloquea los ítems de stock implicados, revalida dentro del bloqueo y en una
// sola transacción inserta el pedido, descuenta el stock y registra los movimientos. Cualquier fallo
// revierte todo. El pedido queda FIRED_TO_KITCHEN.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*dto.OrderResponse, error) {
	in.TableID = strings.TrimSpace(in.TableID)
	if in.TableID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		TableID:      in.TableID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Status:       entity.OrderStatusFiredToKitchen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stockKeys := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("cantidad %d para %q: %w", it.Quantity, it.DishID, domain.ErrInvalidInput)
		}
		dish, ok := uc.menu.Dish(it.DishID)
		if !ok {
			return nil, fmt.Errorf("plato %q no está en el menú: %w", it.DishID, domain.ErrInvalidInput)
		}
		if !dish.Available {
			return nil, fmt.Errorf("plato %q no disponible: %w", dish.Name, domain.ErrInvalidInput)
		}
		order.Items = append(order.Items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			DishID:      dish.ID,
			DishName:    dish.Name,
			StockItemID: dish.StockItemID,
			Quantity:    it.Quantity,
			Notes:       strings.TrimSpace(it.Notes),
			Status:      entity.ItemStatusPending,
			UnitPrice:   dish.Price,
		})
		stockKeys = append(stockKeys, dish.StockItemID)
	}

	unlock := uc.stockLocks.LockAll(stockKeys)
	defer unlock()

	if missing, err := uc.checkStock(ctx, uc.stockRepo, in.Items); err != nil {
		return nil, err
	} else if len(missing) > 0 {
		return nil, &domain.StockViolationError{MissingItems: missing}
	}

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, it := range order.Items {
			if it.StockItemID == "" {
				continue
			}
			// Bloquea la fila; un registro inexistente equivale a stock ilimitado.
			st, err := stockRepo.GetForUpdate(ctx, it.StockItemID)
			if err != nil {
				return err
			}
			if st == nil {
				continue
			}
			ok, err := stockRepo.TryDeduct(ctx, it.StockItemID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				current, _ := stockRepo.Get(ctx, it.StockItemID)
				available := st.Quantity
				if current != nil {
					available = current.Quantity
				}
				return &domain.StockViolationError{MissingItems: []string{missingItem(it.DishName, available)}}
			}
			if err := movRepo.Create(ctx, &entity.StockMovement{
				ID:          uuid.New().String(),
				StockItemID: it.StockItemID,
				OrderID:     order.ID,
				Type:        entity.StockMovementOut,
				Quantity:    it.Quantity,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.appendAudit(ctx, entity.AuditOrderCreated, in.UserID,
		fmt.Sprintf("Pedido %s criado para a mesa %s", order.ID, order.TableID),
		map[string]any{"order_id": order.ID, "table_id": order.TableID, "items": auditItems(order.Items)})
	uc.log.Info().Str("order_id", order.ID).Str("table_id", order.TableID).Int("items", len(order.Items)).Msg("pedido enviado a cocina")

	resp := toOrderResponse(order)
	return &resp, nil
}

// ── Cancelación ───────────────────────────────────────────────────────────────

// CancelOrder restaura el stock de cada línea vinculada, vacía el pedido y lo marca CANCELLED, todo
// en una transacción. Un pedido inexistente o ya cancelado devuelve ErrOrderNotFound sin tocar el stock.
func (uc *UseCase) CancelOrder(ctx context.Context, orderID, userID string) error {
	unlockOrder := uc.orderLocks.Lock(orderID)
	defer unlockOrder()

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil || order.IsCancelled() {
		return domain.ErrOrderNotFound
	}

	keys := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		keys = append(keys, it.StockItemID)
	}
	unlockStock := uc.stockLocks.LockAll(keys)
	defer unlockStock()

	now := uc.now()
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// El cambio de estado condicional es el que reclama la cancelación: si otra instancia ya la
		// hizo, no afecta filas y el stock no se toca.
		claimed, err := orderRepo.MarkCancelled(ctx, orderID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrOrderNotFound
		}
		current, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrOrderNotFound
		}
		for _, it := range current.Items {
			if it.StockItemID == "" {
				continue
			}
			st, err := stockRepo.GetForUpdate(ctx, it.StockItemID)
			if err != nil {
				return err
			}
			if st == nil {
				continue
			}
			if err := stockRepo.Adjust(ctx, it.StockItemID, it.Quantity); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, &entity.StockMovement{
				ID:          uuid.New().String(),
				StockItemID: it.StockItemID,
				OrderID:     orderID,
				Type:        entity.StockMovementRestore,
				Quantity:    it.Quantity,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return orderRepo.ClearItems(ctx, orderID)
	})
	if err != nil {
		return err
	}

	uc.appendAudit(ctx, entity.AuditOrderCancelled, userID,
		fmt.Sprintf("Pedido %s cancelado", orderID),
		map[string]any{"order_id": orderID, "table_id": order.TableID, "items": auditItems(order.Items)})
	uc.log.Info().Str("order_id", orderID).Msg("pedido cancelado, stock restaurado")
	return nil
}

// ── Cocina ────────────────────────────────────────────────────────────────────

// GetOrderStatus estado agregado de cocina del pedido.
func (uc *UseCase) GetOrderStatus(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	resp := toStatusResponse(order)
	return &resp, nil
}

// UpdateItemStatus avanza una línea en cocina (nunca retrocede). Cuando todas las líneas están
// PRONTO o ENTREGUE el pedido pasa a PRONTO.
func (uc *UseCase) UpdateItemStatus(ctx context.Context, orderID, itemID, status, userID string) (*dto.OrderStatusResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !entity.ValidItemStatus(status) {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}

	unlock := uc.orderLocks.Lock(orderID)
	defer unlock()

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsCancelled() {
		return nil, domain.ErrOrderNotFound
	}
	idx := -1
	for i, it := range order.Items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	from := order.Items[idx].Status
	if !entity.CanAdvanceItem(from, status) {
		return nil, fmt.Errorf("de %s a %s: %w", from, status, domain.ErrConflict)
	}

	order.Items[idx].Status = status
	becameReady := order.KitchenStatus() == entity.ItemStatusReady && order.Status != entity.OrderStatusReady

	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := orderRepo.UpdateItemStatus(ctx, orderID, itemID, status); err != nil {
			return err
		}
		if becameReady {
			return orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusReady)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becameReady {
		order.Status = entity.OrderStatusReady
	}

	uc.appendAudit(ctx, entity.AuditOrderItemStatus, userID,
		fmt.Sprintf("Item %s do pedido %s: %s → %s", itemID, orderID, from, status),
		map[string]any{"order_id": orderID, "item_id": itemID, "from": from, "to": status})

	resp := toStatusResponse(order)
	return &resp, nil
}

// Ticket genera el PDF del ticket de cocina.
func (uc *UseCase) Ticket(ctx context.Context, orderID string) ([]byte, error) {
	if uc.tickets == nil {
		return nil, errors.New("generador de tickets no configurado")
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsCancelled() {
		return nil, domain.ErrOrderNotFound
	}
	name := uc.restaurantName
	if n, ok := uc.menu.(interface{ RestaurantName() string }); ok && n.RestaurantName() != "" {
		name = n.RestaurantName()
	}
	return uc.tickets.RenderTicket(order, name)
}

// appendAudit la auditoría nunca hace fallar la operación: los errores solo se registran.
func (uc *UseCase) appendAudit(ctx context.Context, action, userID, details string, meta map[string]any) {
	if uc.auditRepo == nil {
		return
	}
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		Action:    action,
		Details:   details,
		Metadata:  meta,
		UserID:    userID,
		CreatedAt: uc.now(),
	}
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo registrar la auditoría")
	}
}

func auditItems(items []entity.OrderItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"dish_id": it.DishID, "name": it.DishName, "quantity": it.Quantity})
	}
	return out
}

func toItemResponses(items []entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			ID:        it.ID,
			DishID:    it.DishID,
			DishName:  it.DishName,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
			Status:    it.Status,
			UnitPrice: it.UnitPrice,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:           o.ID,
		TableID:      o.TableID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Total:        o.Total(),
		Items:        toItemResponses(o.Items),
		CreatedAt:    o.CreatedAt,
	}
}

func toStatusResponse(o *entity.Order) dto.OrderStatusResponse {
	kitchen := o.KitchenStatus()
	if o.IsCancelled() {
		kitchen = entity.OrderStatusCancelled
	}
	return dto.OrderStatusResponse{
		OrderID:       o.ID,
		Status:        o.Status,
		KitchenStatus: kitchen,
		Items:         toItemResponses(o.Items),
	}
}
