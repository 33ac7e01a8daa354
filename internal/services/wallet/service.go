package wallet

import (
	"context"
	"errors"
	"strings"

	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/repositories"

	"go.uber.org/zap"
)

const maxSymbolLength = 16

type service struct {
	repo   repositories.WalletRepository
	logger *zap.Logger
}

// NewService creates a new wallet service
func NewService(repo repositories.WalletRepository, logger *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger.Named("wallet")}
}

func (s *service) CreateAdminWallet(ctx context.Context, in CreateAdminWalletInput) (*models.AdminWallet, error) {
	symbol := models.NormalizeSymbol(in.Abbreviation)
	name := strings.TrimSpace(in.CurrencyName)
	if symbol == "" || name == "" {
		return nil, domainerrors.ErrInvalidWallet.WithMessage("currency_name and abbreviation are required")
	}
	if len(symbol) > maxSymbolLength {
		return nil, domainerrors.ErrInvalidWallet.WithMessage("abbreviation must be at most %d characters", maxSymbolLength)
	}

	wallet := &models.AdminWallet{
		CurrencyName: name,
		Abbreviation: symbol,
		Address:      strings.TrimSpace(in.Address),
	}
	if err := s.repo.CreateAdminWallet(ctx, wallet); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAdminWallet) {
			return nil, domainerrors.ErrDuplicateAdminWallet.WithMessage("an admin wallet for %s already exists", symbol)
		}
		return nil, domainerrors.ErrPersistence.Wrap(err)
	}

	s.logger.Info("admin wallet created",
		zap.Uint("admin_wallet_id", wallet.ID),
		zap.String("abbreviation", wallet.Abbreviation))
	return wallet, nil
}

func (s *service) GetAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error) {
	wallet, err := s.repo.GetAdminWallet(ctx, id)
	if err != nil {
		return nil, adminLookupError(err)
	}
	return wallet, nil
}

func (s *service) ListAdminWallets(ctx context.Context) ([]models.AdminWallet, error) {
	wallets, err := s.repo.ListAdminWallets(ctx)
	if err != nil {
		return nil, domainerrors.ErrPersistence.Wrap(err)
	}
	return wallets, nil
}

func (s *service) CreateClientWallet(ctx context.Context, in CreateClientWalletInput) (*models.ClientWallet, error) {
	if in.ClientID == 0 {
		return nil, domainerrors.ErrInvalidWallet.WithMessage("client_id is required")
	}

	admin, err := s.resolveAdminWallet(ctx, in)
	if err != nil {
		return nil, err
	}

	wallet := &models.ClientWallet{ClientID: in.ClientID, AdminWalletID: admin.ID}
	if err := s.repo.CreateClientWallet(ctx, wallet); err != nil {
		return nil, domainerrors.ErrPersistence.Wrap(err)
	}
	wallet.AdminWallet = *admin

	s.logger.Info("client wallet created",
		zap.Uint("client_wallet_id", wallet.ID),
		zap.Uint("client_id", wallet.ClientID),
		zap.String("currency", admin.Abbreviation))
	return wallet, nil
}

func (s *service) GetClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error) {
	wallet, err := s.repo.GetClientWallet(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domainerrors.ErrClientWalletNotFound
		}
		return nil, domainerrors.ErrPersistence.Wrap(err)
	}
	return wallet, nil
}

func (s *service) ListClientWallets(ctx context.Context, clientID uint) ([]models.ClientWallet, error) {
	wallets, err := s.repo.ListClientWallets(ctx, clientID)
	if err != nil {
		return nil, domainerrors.ErrPersistence.Wrap(err)
	}
	if wallets == nil {
		wallets = []models.ClientWallet{}
	}
	return wallets, nil
}

func (s *service) resolveAdminWallet(ctx context.Context, in CreateClientWalletInput) (*models.AdminWallet, error) {
	switch {
	case in.AdminWalletID != 0:
		admin, err := s.repo.GetAdminWallet(ctx, in.AdminWalletID)
		if err != nil {
			return nil, adminLookupError(err)
		}
		if in.Currency != "" && !admin.Matches(in.Currency) {
			return nil, domainerrors.ErrInvalidCurrency.WithMessage(
				"currency %q does not match admin wallet %s", in.Currency, admin.Abbreviation)
		}
		return admin, nil
	case in.Currency != "":
		admin, err := s.repo.GetAdminWalletBySymbol(ctx, in.Currency)
		if err != nil {
			return nil, adminLookupError(err)
		}
		return admin, nil
	default:
		return nil, domainerrors.ErrInvalidWallet.WithMessage("admin_wallet_id or currency is required")
	}
}

func adminLookupError(err error) error {
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return domainerrors.ErrAdminWalletNotFound
	}
	return domainerrors.ErrPersistence.Wrap(err)
}
