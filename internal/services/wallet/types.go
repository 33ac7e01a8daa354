package wallet

// CreateAdminWalletInput describes a new custodial pool.
type CreateAdminWalletInput struct {
	CurrencyName string `json:"currency_name"`
	Abbreviation string `json:"abbreviation"`
	Address      string `json:"address"`
}

// CreateClientWalletInput opens a client position against a pool, given
// either the pool id or its currency symbol.
type CreateClientWalletInput struct {
	ClientID      uint   `json:"client_id"`
	AdminWalletID uint   `json:"admin_wallet_id"`
	Currency      string `json:"currency"`
}
