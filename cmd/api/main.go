package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/autoparts-api/internal/application/analytics"
	"github.com/jhoicas/autoparts-api/internal/application/auth"
	"github.com/jhoicas/autoparts-api/internal/application/inventory"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/autoparts-api/internal/interfaces/http"
	"github.com/jhoicas/autoparts-api/pkg/config"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

// stores repositorios según STORE_DRIVER.
type stores struct {
	parts      repository.PartRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	tx         inventory.TxRunner
	close      func()
}

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	hub := realtime.NewHub(cfg.Realtime.SendBuffer, log)
	broadcaster := realtime.NewBroadcaster(hub)

	stockEngine := inventory.NewStockEngine(st.tx, broadcaster, inventory.StockEngineConfig{
		MaxAttempts:  cfg.Stock.MaxAttempts,
		RetryBackoff: cfg.Stock.RetryBackoff(),
	}, log)
	partUC := usecase.NewPartUseCase(st.parts, st.categories, broadcaster)
	categoryUC := usecase.NewCategoryUseCase(st.categories)
	dashboardUC := appanalytics.NewDashboardUseCase(st.parts, st.categories)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshSecret:     cfg.JWT.RefreshSecret,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	if _, err := authUC.SeedAdmin(ctx, auth.AdminSeed{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, log); err != nil {
		log.Error().Err(err).Msg("crear administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigin}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Autoparts API",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": cfg.App.Name, "docs": "/docs", "realtime": "/ws"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		PartUC:      partUC,
		CategoryUC:  categoryUC,
		StockEngine: stockEngine,
		DashboardUC: dashboardUC,
		Hub:         hub,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		s := memory.NewStore()
		return &stores{
			parts:      s.Parts(),
			categories: s.Categories(),
			users:      s.Users(),
			tx:         s.TxRunner(),
			close:      func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		parts:      postgres.NewPartRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		users:      postgres.NewUserRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}
