package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coffeelink/marketplace-api/internal/application/admin"
	"github.com/coffeelink/marketplace-api/internal/application/auth"
	"github.com/coffeelink/marketplace-api/internal/application/business"
	"github.com/coffeelink/marketplace-api/internal/application/catalog"
	"github.com/coffeelink/marketplace-api/internal/application/checkout"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	OnboardingUC  *business.OnboardingUseCase
	ReviewUC      *admin.ReviewUseCase
	CatalogUC     *catalog.CatalogUseCase
	CheckoutUC    *checkout.CheckoutUseCase
	ReceiptUC     *checkout.ReceiptUseCase
	JWTSecret     string
	WebhookSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público salvo logout/me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWTSecret)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/oauth/callback", authHandler.OAuthCallback)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Catálogo público
	productHandler := NewProductHandler(deps.CatalogUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/:slug", productHandler.GetBySlug)

	// Webhook de la pasarela (autenticado por firma HMAC, no por JWT)
	paymentHandler := NewPaymentHandler(deps.CheckoutUC, deps.ReceiptUC)
	api.Post("/payments/webhook", WebhookAuthMiddleware(deps.WebhookSecret), paymentHandler.Webhook)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Onboarding de negocio
	businessGroup := protected.Group("/business")
	businessHandler := NewBusinessHandler(deps.OnboardingUC)
	businessGroup.Post("/onboard", businessHandler.Onboard)
	businessGroup.Get("/me", businessHandler.GetMine)

	// Publicar productos: solo negocios aprobados
	protected.Post("/products", RequireApprovedBusiness(deps.OnboardingUC), productHandler.Create)
	protected.Put("/products/:id", RequireApprovedBusiness(deps.OnboardingUC), productHandler.Update)

	// Checkout y órdenes
	protected.Post("/checkout", paymentHandler.Checkout)
	orders := protected.Group("/orders")
	orders.Get("/:id", paymentHandler.GetOrder)
	orders.Get("/:id/receipt", paymentHandler.Receipt)

	// Revisión de perfiles (solo ADMIN)
	adminGroup := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.ReviewUC)
	adminGroup.Get("/businesses/pending", adminHandler.ListPending)
	adminGroup.Post("/businesses/:id/approve", adminHandler.Approve)
	adminGroup.Post("/businesses/:id/reject", adminHandler.Reject)
}
