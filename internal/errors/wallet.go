package errors

var (
	ErrInvalidAmount = newError(KindValidation,
		"INVALID_AMOUNT", "amount must be non-zero")
	ErrInvalidCurrency = newError(KindValidation,
		"INVALID_CURRENCY", "currency does not match the wallet currency")
	ErrWalletNotFound = newError(KindValidation,
		"WALLET_NOT_FOUND", "wallet not found")
	ErrClientWalletNotFound = newError(KindNotFound,
		"CLIENT_WALLET_NOT_FOUND", "client wallet not found")
	ErrAdminWalletNotFound = newError(KindNotFound,
		"ADMIN_WALLET_NOT_FOUND", "admin wallet not found")
	ErrDuplicateAdminWallet = newError(KindValidation,
		"DUPLICATE_ADMIN_WALLET", "an admin wallet already exists for this currency")
	ErrInvalidWallet = newError(KindValidation,
		"INVALID_WALLET", "invalid wallet data")
)
