package handlers

import (
	"custodia/internal/services/ledger"
	"custodia/internal/services/wallet"
	"custodia/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WalletHandler struct {
	wallets wallet.Service
	ledger  ledger.Service
	logger  *zap.Logger
}

func NewWalletHandler(walletService wallet.Service, ledgerService ledger.Service, logger *zap.Logger) *WalletHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletHandler{
		wallets: walletService,
		ledger:  ledgerService,
		logger:  logger.Named("http"),
	}
}

// Admin pools

func (h *WalletHandler) CreateAdminWallet(c *fiber.Ctx) error {
	var input wallet.CreateAdminWalletInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	w, err := h.wallets.CreateAdminWallet(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) ListAdminWallets(c *fiber.Ctx) error {
	wallets, err := h.wallets.ListAdminWallets(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"wallets": wallets})
}

func (h *WalletHandler) GetAdminWallet(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid wallet id")
	}
	w, err := h.wallets.GetAdminWallet(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// Client wallets

type createClientWalletRequest struct {
	ClientID      uint   `json:"client_id"`
	AdminWalletID uint   `json:"admin_wallet_id"`
	Currency      string `json:"currency"`
}

// CreateClientWallet opens a wallet for the caller. Admins may open one on
// behalf of any client by passing client_id.
func (h *WalletHandler) CreateClientWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input createClientWalletRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	clientID := claims.UserID
	if claims.IsAdmin() && input.ClientID != 0 {
		clientID = input.ClientID
	}

	w, err := h.wallets.CreateClientWallet(c.UserContext(), wallet.CreateClientWalletInput{
		ClientID:      clientID,
		AdminWalletID: input.AdminWalletID,
		Currency:      input.Currency,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

// ListClientWallets lists the caller's wallets, or ?client_id=… for admins.
func (h *WalletHandler) ListClientWallets(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	clientID := claims.UserID
	if claims.IsAdmin() {
		id, set, err := queryID(c, "client_id")
		if err != nil {
			return utils.BadRequest(c, "invalid client_id")
		}
		if set {
			clientID = id
		}
	}

	wallets, err := h.wallets.ListClientWallets(c.UserContext(), clientID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"wallets": wallets})
}

func (h *WalletHandler) GetClientWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid wallet id")
	}

	w, err := h.wallets.GetClientWallet(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if !claims.IsAdmin() && w.ClientID != claims.UserID {
		return utils.NotFound(c, "client wallet not found")
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// GetWalletSummary returns the balance and the settled and pending totals
// for one client wallet.
func (h *WalletHandler) GetWalletSummary(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid wallet id")
	}
	if !claims.IsAdmin() {
		if ok, err := authorizeWallet(c, h.wallets, h.logger, claims, id); !ok {
			return err
		}
	}

	summary, err := h.ledger.GetWalletSummary(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"summary": summary})
}

// Reconciliation

func (h *WalletHandler) ReconcileWallet(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid wallet id")
	}
	result, err := h.ledger.ReconcileWallet(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"result": result})
}

func (h *WalletHandler) ReconcileAll(c *fiber.Ctx) error {
	report, err := h.ledger.ReconcileAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"report": report})
}
