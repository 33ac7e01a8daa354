package errors

var (
	ErrValidation = newError(KindValidation,
		"VALIDATION_ERROR", "invalid request")
	ErrInvalidType = newError(KindValidation,
		"INVALID_TRANSACTION_TYPE", "transaction type must be credit or debit")
	ErrInvalidStatus = newError(KindValidation,
		"INVALID_STATUS", "status must be successful or failed")
	ErrEmptyPatch = newError(KindValidation,
		"EMPTY_PATCH", "patch must change status or amount")

	ErrTransactionNotFound = newError(KindNotFound,
		"TRANSACTION_NOT_FOUND", "transaction not found")

	ErrForbiddenTransition = newError(KindForbiddenTransition,
		"FORBIDDEN_TRANSITION", "transaction is no longer pending")
	// ErrAlreadySettled is a ForbiddenTransition raised when a second status
	// transition is attempted. Callers should refresh state and not retry.
	ErrAlreadySettled = newSubError(ErrForbiddenTransition, KindAlreadySettled,
		"ALREADY_SETTLED", "transaction is already settled")

	ErrForbiddenDelete = newError(KindForbiddenDelete,
		"FORBIDDEN_DELETE", "only pending admin-created transactions can be deleted")

	ErrPersistence = newError(KindPersistence,
		"PERSISTENCE_ERROR", "ledger store failure")
)
