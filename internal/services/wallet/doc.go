/*
Package wallet administers admin pools and client wallets.

Balances are never written here. Client and admin balances change only
through settlements in package ledger, and reads always come from the
store so the returned balance is the persisted one.
*/
package wallet
