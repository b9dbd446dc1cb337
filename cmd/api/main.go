package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/menu-engine/internal/application/inventory"
	"github.com/jhoicas/menu-engine/internal/application/menu"
	"github.com/jhoicas/menu-engine/internal/application/order"
	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	domainmenu "github.com/jhoicas/menu-engine/internal/domain/menu"
	infrafeed "github.com/jhoicas/menu-engine/internal/infrastructure/feed"
	infrapdf "github.com/jhoicas/menu-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/menu-engine/internal/infrastructure/postgres"
	infraremote "github.com/jhoicas/menu-engine/internal/infrastructure/remote"
	httpRouter "github.com/jhoicas/menu-engine/internal/interfaces/http"
	"github.com/jhoicas/menu-engine/pkg/config"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	catalogRepo := postgres.NewCatalogRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Fuentes externas: nil cuando no están configuradas.
	var remoteSrc ports.RemoteMenuSource
	var subscriber ports.DeltaSubscriber
	if cfg.Remote.Enabled {
		remoteSrc = infraremote.NewClient(cfg.Remote, log)
		if cfg.Remote.RealtimeURL != "" {
			subscriber = infraremote.NewSubscriber(cfg.Remote, log)
		}
	}
	var feedSrc ports.FeedSource
	if cfg.Feed.BaseURL != "" {
		feedSrc = infrafeed.NewClient(cfg.Feed, log)
	}

	engine := menu.NewEngine(catalogRepo, remoteSrc, feedSrc, log, menu.Options{
		Retries:    cfg.Remote.Retries,
		RetryDelay: cfg.Remote.RetryDelay,
		Locale:     cfg.Menu.Locale,
	})
	if _, err := engine.RefreshWithRetry(ctx); err != nil {
		// Sin menú el servicio sigue arriba: las vistas responden 503 hasta el próximo refresco.
		if errors.Is(err, domain.ErrMenuEmpty) {
			log.Warn().Err(err).Msg("menú vacío en el arranque")
		} else {
			log.Error().Err(err).Msg("carga inicial del menú")
		}
	}
	go func() {
		if err := engine.Run(ctx, subscriber, cfg.Sync.RefreshInterval); err != nil {
			log.Error().Err(err).Msg("sincronización del menú finalizada")
		}
	}()

	orderUC := order.NewUseCase(order.Deps{
		Menu:           engine,
		StockRepo:      stockRepo,
		OrderRepo:      orderRepo,
		AuditRepo:      auditRepo,
		TxRunner:       txRunner,
		Tickets:        infrapdf.NewKitchenTicketRenderer(),
		RestaurantName: cfg.App.Name,
		Log:            log,
	})

	replenishmentUC := inventory.NewReplenishmentUseCase(
		postgres.NewReplenishmentRepository(pool),
		func() []entity.Dish { return engine.Dishes(domainmenu.DishQuery{CategoryID: domainmenu.AllKey}) },
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Menu Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		st := engine.Status()
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "menu_sync": st.State})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Menu:          engine,
		Orders:        orderUC,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
