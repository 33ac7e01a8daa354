package ledger

import (
	"errors"

	domainerrors "custodia/internal/errors"
	"custodia/internal/repositories"
)

// toDomain maps repository failures onto the ledger error taxonomy.
// DomainErrors pass through untouched.
func toDomain(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainerrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return domainerrors.ErrTransactionNotFound
	case errors.Is(err, repositories.ErrWalletNotFound):
		return domainerrors.ErrClientWalletNotFound
	case errors.Is(err, repositories.ErrStatusConflict):
		return domainerrors.ErrAlreadySettled
	case errors.Is(err, repositories.ErrNotDeletable):
		return domainerrors.ErrForbiddenDelete
	default:
		return domainerrors.ErrPersistence.Wrap(err)
	}
}
