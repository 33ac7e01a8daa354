// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"fmt"
	"time"

	"custodia/internal/handlers"
	"custodia/internal/middleware"
	"custodia/internal/models"
	"custodia/internal/services/ledger"
	"custodia/internal/services/wallet"
	"custodia/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies carries everything the routes need. Health and Metrics are
// optional.
type Dependencies struct {
	JWTSecret string
	Ledger    ledger.Service
	Wallets   wallet.Service
	Health    *handlers.HealthHandler
	Metrics   *prometheus.Registry
	Logger    *zap.Logger

	// CreateLimit caps transaction proposals per caller per minute. Zero
	// disables the limiter.
	CreateLimit int
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Ledger == nil || deps.Wallets == nil {
		panic("ledger and wallet services are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	txHandler := handlers.NewTransactionHandler(deps.Ledger, deps.Wallets, deps.Logger)
	walletHandler := handlers.NewWalletHandler(deps.Wallets, deps.Ledger, deps.Logger)
	authMiddleware := middleware.NewAuthMiddleware(deps.JWTSecret, deps.Logger)

	if deps.Health != nil {
		app.Get("/health", deps.Health.Check)
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	setupAdminRoutes(admin, walletHandler)

	protected := app.Group("/api", authMiddleware.Handler) // Auth middleware starts here
	setupClientRoutes(protected, txHandler, walletHandler, deps.CreateLimit)
}

func setupClientRoutes(router fiber.Router, txHandler *handlers.TransactionHandler, walletHandler *handlers.WalletHandler, createLimit int) {
	transactions := router.Group("/transactions")
	create := []fiber.Handler{middleware.HasPermission(models.PermissionTransactionWrite)}
	if createLimit > 0 {
		create = append(create, limiter.New(limiter.Config{
			Max:        createLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if claims, err := utils.GetUserClaims(c); err == nil {
					return fmt.Sprintf("user:%d", claims.UserID)
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return utils.Respond(c, fiber.StatusTooManyRequests, fiber.Map{
					"error": utils.ErrorBody{Kind: "rate_limited", Code: "TOO_MANY_REQUESTS", Message: "too many requests, please try again later"},
				})
			},
		}))
	}
	transactions.Post("/", append(create, txHandler.CreateTransaction)...)
	transactions.Get("/", middleware.HasPermission(models.PermissionTransactionRead), txHandler.ListTransactions)
	transactions.Get("/:id", middleware.HasPermission(models.PermissionTransactionRead), txHandler.GetTransaction)

	// Approval workflow, admins only
	transactions.Patch("/:id", middleware.AdminAuthMiddleware, middleware.HasPermission(models.PermissionWriteAdmin), txHandler.UpdateTransaction)
	transactions.Delete("/:id", middleware.AdminAuthMiddleware, middleware.HasPermission(models.PermissionWriteAdmin), txHandler.DeleteTransaction)
	transactions.Post("/:id/approve", middleware.AdminAuthMiddleware, middleware.HasPermission(models.PermissionApproveAdmin), txHandler.ApproveTransaction)
	transactions.Post("/:id/reject", middleware.AdminAuthMiddleware, middleware.HasPermission(models.PermissionApproveAdmin), txHandler.RejectTransaction)

	wallets := router.Group("/wallets")
	wallets.Post("/", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.CreateClientWallet)
	wallets.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.ListClientWallets)
	wallets.Get("/:id", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetClientWallet)
	wallets.Get("/:id/summary", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWalletSummary)
}

func setupAdminRoutes(admin fiber.Router, walletHandler *handlers.WalletHandler) {
	// Custodial pools
	wallets := admin.Group("/wallets")
	wallets.Post("/", middleware.HasPermission(models.PermissionWriteAdmin), walletHandler.CreateAdminWallet)
	wallets.Get("/", middleware.HasPermission(models.PermissionReadAdmin), walletHandler.ListAdminWallets)
	wallets.Get("/:id", middleware.HasPermission(models.PermissionReadAdmin), walletHandler.GetAdminWallet)

	// Reconciliation
	admin.Post("/reconcile", middleware.HasPermission(models.PermissionWriteAdmin), walletHandler.ReconcileAll)
	admin.Post("/reconcile/:id", middleware.HasPermission(models.PermissionWriteAdmin), walletHandler.ReconcileWallet)
}
