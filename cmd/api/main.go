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

	"github.com/coffeelink/marketplace-api/internal/application/admin"
	"github.com/coffeelink/marketplace-api/internal/application/auth"
	"github.com/coffeelink/marketplace-api/internal/application/business"
	"github.com/coffeelink/marketplace-api/internal/application/catalog"
	"github.com/coffeelink/marketplace-api/internal/application/checkout"
	"github.com/coffeelink/marketplace-api/internal/infrastructure/notify"
	infrapayments "github.com/coffeelink/marketplace-api/internal/infrastructure/payments"
	infrapdf "github.com/coffeelink/marketplace-api/internal/infrastructure/pdf"
	"github.com/coffeelink/marketplace-api/internal/infrastructure/postgres"
	httpRouter "github.com/coffeelink/marketplace-api/internal/interfaces/http"
	"github.com/coffeelink/marketplace-api/pkg/config"
	"github.com/coffeelink/marketplace-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	businessRepo := postgres.NewBusinessProfileRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	checkoutTxRunner := postgres.NewCheckoutTxRunner(pool)

	mailer := notify.NewLogMailer(log)
	gateway := infrapayments.NewGateway(log)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()

	authUC := auth.NewAuthUseCase(userRepo, mailer, auth.TokenConfig{
		Secret:        cfg.JWT.Secret,
		AccessMinutes: cfg.JWT.AccessMinutes,
		RefreshDays:   cfg.JWT.RefreshDays,
		Issuer:        cfg.JWT.Issuer,
	})
	onboardingUC := business.NewOnboardingUseCase(txRunner, userRepo, businessRepo)
	reviewUC := admin.NewReviewUseCase(businessRepo)
	catalogUC := catalog.NewCatalogUseCase(productRepo)
	checkoutUC := checkout.NewCheckoutUseCase(checkoutTxRunner, productRepo, orderRepo, gateway)
	receiptUC := checkout.NewReceiptUseCase(orderRepo, productRepo, userRepo, receiptGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AuditMiddleware(auditRepo, log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CoffeeLink API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		OnboardingUC:  onboardingUC,
		ReviewUC:      reviewUC,
		CatalogUC:     catalogUC,
		CheckoutUC:    checkoutUC,
		ReceiptUC:     receiptUC,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Payments.WebhookSecret,
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
