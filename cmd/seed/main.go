// Command seed creates the default custodial pools and, when asked, prints
// an admin token for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"custodia/internal/config"
	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/repositories"
	"custodia/internal/services/wallet"
	"custodia/internal/utils"

	"go.uber.org/zap"
)

var defaultPools = []wallet.CreateAdminWalletInput{
	{CurrencyName: "Bitcoin", Abbreviation: "BTC"},
	{CurrencyName: "Ethereum", Abbreviation: "ETH"},
	{CurrencyName: "Tether", Abbreviation: "USDT"},
	{CurrencyName: "US Dollar", Abbreviation: "USD"},
}

func main() {
	printToken := flag.Bool("token", false, "print a one-hour admin token")
	adminID := flag.Uint("admin-id", 1, "user id embedded in the admin token")
	flag.Parse()

	config.LoadEnv()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewExample()
	}
	defer func() { _ = logger.Sync() }()

	db, err := repositories.InitDB(cfg.DB, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = repositories.CloseDB(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := wallet.NewService(repositories.NewStore(db).Wallets(), logger)
	if err := seedPools(ctx, svc, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	if *printToken {
		token, err := utils.GenerateToken(cfg.JWTSecret, &models.UserClaims{
			UserID: *adminID,
			Role:   models.RoleAdmin,
		}, time.Hour)
		if err != nil {
			logger.Fatal("failed to sign admin token", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, token)
	}
}

// seedPools creates every default pool that does not exist yet.
func seedPools(ctx context.Context, svc wallet.Service, logger *zap.Logger) error {
	for _, pool := range defaultPools {
		_, err := svc.CreateAdminWallet(ctx, pool)
		switch {
		case err == nil:
		case errors.Is(err, domainerrors.ErrDuplicateAdminWallet):
			logger.Info("admin wallet already exists", zap.String("abbreviation", pool.Abbreviation))
		default:
			return fmt.Errorf("create %s pool: %w", pool.Abbreviation, err)
		}
	}
	return nil
}
