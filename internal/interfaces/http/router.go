package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/menu-engine/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Menu          MenuService
	Orders        OrderService
	Replenishment ReplenishmentService // opcional
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	staff := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleAdmin, jwt.RoleKitchen, jwt.RoleWaiter)}

	// Menú digital (público)
	menuGroup := api.Group("/menu")
	menuHandler := NewMenuHandler(deps.Menu)
	menuGroup.Get("/", menuHandler.Summary)
	menuGroup.Get("/categories", menuHandler.Categories)
	menuGroup.Get("/categories/tree", menuHandler.CategoryTree)
	menuGroup.Get("/dishes", menuHandler.Dishes)
	menuGroup.Get("/dishes/:id", menuHandler.Dish)
	menuGroup.Get("/status", menuHandler.Status)
	menuGroup.Post("/refresh", append(staff, menuHandler.Refresh)...)

	// Pedidos: validación y creación desde la mesa; gestión solo staff
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders)
	orders.Post("/validate", orderHandler.ValidateStock)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id/status", orderHandler.Status)
	orders.Delete("/:id", append(staff, orderHandler.Cancel)...)
	orders.Patch("/:id/items/:itemId", append(staff, orderHandler.UpdateItemStatus)...)
	orders.Get("/:id/ticket", append(staff, orderHandler.Ticket)...)

	// Libro de stock (admin y cozinha)
	if deps.Replenishment != nil {
		stock := api.Group("/stock", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleAdmin, jwt.RoleKitchen))
		inventoryHandler := NewInventoryHandler(deps.Replenishment)
		stock.Get("/replenishment", inventoryHandler.GetReplenishmentList)
	}
}
