/*
Package ledger is the only writer of transaction statuses and wallet
balances.

A transaction is created pending and priced once in USD at the rate of its
wallet's currency. It then moves exactly once to successful or failed.
Settling a transaction as successful recomputes the owning client wallet
from a full fold over its successful transactions, then re-folds the admin
pool that the wallet belongs to. Status change and balance change commit in
the same database transaction.

Concurrency:

Transitions on one transaction are serialized in process by a keyed mutex
and across processes by a conditional update that only matches pending
rows. The loser of a race gets ErrAlreadySettled. Balance recomputes are
serialized per wallet by a keyed mutex and a row lock on the wallet, so
different wallets settle in parallel.

Usage:

	svc := ledger.NewService(store, rates, ledger.Config{}, logger, metrics)

	tx, err := svc.CreateTransaction(ctx, ledger.CreateTransactionInput{
	    ClientWalletID: 7,
	    Type:           models.TransactionTypeCredit,
	    RawAmount:      decimal.NewFromInt(100),
	})

	tx, err = svc.ApproveTransaction(ctx, tx.ID)
*/
package ledger
