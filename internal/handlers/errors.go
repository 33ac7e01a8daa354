package handlers

import (
	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/services/wallet"
	"custodia/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if domainerrors.KindOf(err) == domainerrors.KindPersistence {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return utils.Error(c, err)
}

// authorizeWallet checks that a client owns walletID. When ok is false the
// response has already been written and err is the result of writing it.
func authorizeWallet(
	c *fiber.Ctx,
	wallets wallet.Service,
	logger *zap.Logger,
	claims *models.UserClaims,
	walletID uint,
) (ok bool, err error) {
	if walletID == 0 {
		return false, utils.BadRequest(c, "client_wallet_id is required")
	}
	w, err := wallets.GetClientWallet(c.UserContext(), walletID)
	if err != nil {
		return false, respondError(c, logger, err)
	}
	if w.ClientID != claims.UserID {
		// Foreign wallets are reported as missing
		return false, utils.NotFound(c, "client wallet not found")
	}
	return true, nil
}
