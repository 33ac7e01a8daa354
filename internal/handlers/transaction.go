package handlers

import (
	"custodia/internal/models"
	"custodia/internal/services/ledger"
	"custodia/internal/services/wallet"
	"custodia/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultTransactionLimit = 20
	maxTransactionLimit     = 100 // Maximum allowed transactions per page
)

type TransactionHandler struct {
	ledger  ledger.Service
	wallets wallet.Service
	logger  *zap.Logger
}

func NewTransactionHandler(ledgerService ledger.Service, walletService wallet.Service, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{
		ledger:  ledgerService,
		wallets: walletService,
		logger:  logger.Named("http"),
	}
}

type createTransactionRequest struct {
	ClientWalletID    uint             `json:"client_wallet_id"`
	Type              string           `json:"type"`
	Amount            *decimal.Decimal `json:"amount"`
	Currency          string           `json:"currency"`
	IsAdminCreated    bool             `json:"is_admin_created"`
	SettleImmediately bool             `json:"settle_immediately"`
}

type updateTransactionRequest struct {
	Status *string          `json:"status"`
	Amount *decimal.Decimal `json:"amount"`
}

// CreateTransaction proposes a ledger entry. Clients may only post against
// their own wallets and never as admin.
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input createTransactionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Amount == nil {
		return utils.BadRequest(c, "amount is required")
	}

	if !claims.IsAdmin() {
		if input.IsAdminCreated || input.SettleImmediately {
			return utils.Forbidden(c, "only admins can create admin transactions")
		}
		if ok, err := authorizeWallet(c, h.wallets, h.logger, claims, input.ClientWalletID); !ok {
			return err
		}
	}

	tx, err := h.ledger.CreateTransaction(c.UserContext(), ledger.CreateTransactionInput{
		ClientWalletID:    input.ClientWalletID,
		Type:              models.TransactionType(input.Type),
		RawAmount:         *input.Amount,
		Currency:          input.Currency,
		IsAdminCreated:    claims.IsAdmin() && input.IsAdminCreated,
		SettleImmediately: input.SettleImmediately,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}

	var input updateTransactionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	patch := ledger.TransactionPatch{RawAmount: input.Amount}
	if input.Status != nil {
		status := models.TransactionStatus(*input.Status)
		patch.Status = &status
	}

	tx, err := h.ledger.UpdateTransaction(c.UserContext(), id, patch)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) ApproveTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}
	tx, err := h.ledger.ApproveTransaction(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) RejectTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}
	tx, err := h.ledger.RejectTransaction(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.Success(c, fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}
	if err := h.ledger.DeleteTransaction(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return utils.NoContent(c)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.ledger.GetTransaction(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !claims.IsAdmin() {
		if ok, err := authorizeWallet(c, h.wallets, h.logger, claims, tx.ClientWalletID); !ok {
			return err
		}
	}
	return utils.Success(c, fiber.Map{"transaction": tx})
}

// ListTransactions serves ?client_wallet_id=… for a wallet's history and
// ?status=pending for the admin approval queue.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	walletID, byWallet, err := queryID(c, "client_wallet_id")
	if err != nil {
		return utils.BadRequest(c, "invalid client_wallet_id")
	}
	status := c.Query("status")

	pagination := utils.GetPagination(c, 1, defaultTransactionLimit)
	if pagination.Limit > maxTransactionLimit {
		pagination.Limit = maxTransactionLimit
		pagination.Offset = (pagination.Page - 1) * pagination.Limit
	}
	page := ledger.Page{Limit: pagination.Limit, Offset: pagination.Offset}

	var result *ledger.TransactionPage
	switch {
	case byWallet:
		if !claims.IsAdmin() {
			if ok, err := authorizeWallet(c, h.wallets, h.logger, claims, walletID); !ok {
				return err
			}
		}
		result, err = h.ledger.ListByClientWallet(c.UserContext(), walletID, page)
	case status == string(models.StatusPending):
		if !claims.IsAdmin() {
			return utils.Forbidden(c, "insufficient permissions")
		}
		result, err = h.ledger.ListPendingTransactions(c.UserContext(), page)
	case status != "":
		return utils.BadRequest(c, "status filter only supports pending")
	default:
		return utils.BadRequest(c, "client_wallet_id or status=pending is required")
	}
	if err != nil {
		return h.fail(c, err)
	}

	pagination.SetTotal(result.Total, result.Limit)
	return utils.Success(c, utils.NewPaginatedResponse(result.Items, pagination))
}

func (h *TransactionHandler) fail(c *fiber.Ctx, err error) error {
	return respondError(c, h.logger, err)
}
