package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcastellanos/registros-api/internal/application/auth"
	"github.com/jcastellanos/registros-api/internal/application/billing"
	"github.com/jcastellanos/registros-api/internal/infrastructure/cache"
	"github.com/jcastellanos/registros-api/internal/infrastructure/identity"
	infrapdf "github.com/jcastellanos/registros-api/internal/infrastructure/pdf"
	"github.com/jcastellanos/registros-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastellanos/registros-api/internal/interfaces/http"
	"github.com/jcastellanos/registros-api/pkg/config"
	"github.com/jcastellanos/registros-api/pkg/logger"
)

// TTL del cache de vistas: el payload expira solo aunque una invalidación se pierda.
const viewCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de vistas: Redis en despliegues reales, memoria con REDIS_DISABLED=true.
	var views billing.ViewCache
	if cfg.Redis.Disabled {
		views = cache.NewMemoryViewCache(viewCacheTTL)
		log.Info().Msg("cache de vistas en memoria")
	} else {
		redisCache, err := cache.NewRedisViewCache(
			ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, viewCacheTTL, log,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		views = redisCache
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("cache de vistas en Redis")
	}

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, views)
	customerUC := billing.NewCustomerUseCase(customerRepo, txRunner, views)
	pdfUC := billing.NewPDFUseCase(invoiceRepo, customerRepo, infrapdf.NewMarotoReceiptGenerator())

	provider := identity.NewProvider(userRepo, identity.Config{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	authUC := auth.NewAuthUseCase(provider)

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
		Title:    "Registros API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:  invoiceUC,
		CustomerUC: customerUC,
		PDFUC:      pdfUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
