package ports

import "github.com/jhoicas/menu-engine/internal/domain/entity"

// TicketRenderer genera el ticket de cocina de un pedido (PDF).
type TicketRenderer interface {
	RenderTicket(order *entity.Order, restaurantName string) ([]byte, error)
}
