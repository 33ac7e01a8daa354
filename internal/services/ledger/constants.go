package ledger

// Paging defaults
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)
