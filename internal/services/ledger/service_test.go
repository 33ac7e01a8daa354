package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/repositories/memstore"
	"custodia/internal/services/exchange"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    Service
	store  *memstore.Store
	rates  exchange.StaticProvider
	btc    *models.AdminWallet
	wallet *models.ClientWallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	rates := exchange.StaticProvider{
		"BTC": decimal.NewFromInt(2),
		"ETH": decimal.NewFromInt(3000),
	}

	btc := &models.AdminWallet{CurrencyName: "Bitcoin", Abbreviation: "btc", Address: "bc1qpool"}
	require.NoError(t, store.CreateAdminWallet(ctx, btc))
	wallet := &models.ClientWallet{ClientID: 42, AdminWalletID: btc.ID}
	require.NoError(t, store.CreateClientWallet(ctx, wallet))

	return &fixture{
		svc:    NewService(store, rates, Config{}, nil, nil),
		store:  store,
		rates:  rates,
		btc:    btc,
		wallet: wallet,
	}
}

func (f *fixture) create(t *testing.T, txType models.TransactionType, amount int64, admin bool) *models.Transaction {
	t.Helper()
	tx, err := f.svc.CreateTransaction(context.Background(), CreateTransactionInput{
		ClientWalletID: f.wallet.ID,
		Type:           txType,
		RawAmount:      decimal.NewFromInt(amount),
		IsAdminCreated: admin,
	})
	require.NoError(t, err)
	return tx
}

func (f *fixture) balance(t *testing.T, walletID uint) decimal.Decimal {
	t.Helper()
	w, err := f.store.GetClientWallet(context.Background(), walletID)
	require.NoError(t, err)
	return w.AmountInUSD
}

// assertFold checks the wallet balance equals the fold of its successful
// transactions.
func (f *fixture) assertFold(t *testing.T, walletID uint) {
	t.Helper()
	folded, err := f.store.SumSuccessful(context.Background(), walletID)
	require.NoError(t, err)
	assertUSD(t, folded.String(), f.balance(t, walletID))
}

func assertUSD(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestCreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    func(f *fixture) CreateTransactionInput
		wantErr  error
		wantKind domainerrors.Kind
	}{
		{
			name: "zero amount",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{ClientWalletID: f.wallet.ID, Type: models.TransactionTypeCredit, RawAmount: decimal.Zero}
			},
			wantErr:  domainerrors.ErrInvalidAmount,
			wantKind: domainerrors.KindValidation,
		},
		{
			name: "unknown wallet",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{ClientWalletID: 999, Type: models.TransactionTypeCredit, RawAmount: decimal.NewFromInt(1)}
			},
			wantErr:  domainerrors.ErrWalletNotFound,
			wantKind: domainerrors.KindValidation,
		},
		{
			name: "missing wallet",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{Type: models.TransactionTypeCredit, RawAmount: decimal.NewFromInt(1)}
			},
			wantErr:  domainerrors.ErrWalletNotFound,
			wantKind: domainerrors.KindValidation,
		},
		{
			name: "unknown type",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{ClientWalletID: f.wallet.ID, Type: "refund", RawAmount: decimal.NewFromInt(1)}
			},
			wantErr:  domainerrors.ErrInvalidType,
			wantKind: domainerrors.KindValidation,
		},
		{
			name: "currency mismatch",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{ClientWalletID: f.wallet.ID, Type: models.TransactionTypeCredit, RawAmount: decimal.NewFromInt(1), Currency: "ETH"}
			},
			wantErr:  domainerrors.ErrInvalidCurrency,
			wantKind: domainerrors.KindValidation,
		},
		{
			name: "client cannot settle immediately",
			input: func(f *fixture) CreateTransactionInput {
				return CreateTransactionInput{ClientWalletID: f.wallet.ID, Type: models.TransactionTypeCredit, RawAmount: decimal.NewFromInt(1), SettleImmediately: true}
			},
			wantErr:  domainerrors.ErrForbiddenTransition,
			wantKind: domainerrors.KindForbiddenTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tx, err := f.svc.CreateTransaction(context.Background(), tt.input(f))
			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, domainerrors.KindOf(err))

			page, err := f.svc.ListByClientWallet(context.Background(), f.wallet.ID, Page{})
			require.NoError(t, err)
			assert.Zero(t, page.Total, "nothing is persisted")
		})
	}
}

func TestCreateTransaction_Pending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tx, err := f.svc.CreateTransaction(ctx, CreateTransactionInput{
		ClientWalletID: f.wallet.ID,
		Type:           models.TransactionTypeDebit,
		RawAmount:      decimal.NewFromInt(-50),
		Currency:       "bitcoin",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, tx.Status)
	assert.Equal(t, "BTC", tx.Currency)
	assert.NotEmpty(t, tx.Reference)
	assertUSD(t, "50", tx.RawAmount)
	assertUSD(t, "2", tx.RateUSD)
	assertUSD(t, "-100", tx.AmountInUSD)
	assert.Nil(t, tx.SettledAt)
	assertUSD(t, "0", f.balance(t, f.wallet.ID))
}

func TestCreateTransaction_RoundsToStoredScale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.rates["BTC"] = decimal.RequireFromString("1.123456789")

	tx, err := f.svc.CreateTransaction(ctx, CreateTransactionInput{
		ClientWalletID: f.wallet.ID,
		Type:           models.TransactionTypeCredit,
		RawAmount:      decimal.RequireFromString("0.123456789"),
	})
	require.NoError(t, err)
	assertUSD(t, "0.12345679", tx.RawAmount)
	assertUSD(t, "1.12345679", tx.RateUSD)
	assertUSD(t, "0.13869837", tx.AmountInUSD)

	stored, err := f.svc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, stored.AmountInUSD.Equal(tx.AmountInUSD))

	_, err = f.svc.CreateTransaction(ctx, CreateTransactionInput{
		ClientWalletID: f.wallet.ID,
		Type:           models.TransactionTypeCredit,
		RawAmount:      decimal.RequireFromString("0.000000001"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
}

func TestLedger_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	credit := f.create(t, models.TransactionTypeCredit, 100, false)
	assertUSD(t, "200", credit.AmountInUSD)

	approved, err := f.svc.ApproveTransaction(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, approved.Status)
	assert.NotNil(t, approved.SettledAt)
	assertUSD(t, "200", f.balance(t, f.wallet.ID))

	debit := f.create(t, models.TransactionTypeDebit, 50, false)
	assertUSD(t, "-100", debit.AmountInUSD)

	_, err = f.svc.ApproveTransaction(ctx, debit.ID)
	require.NoError(t, err)
	assertUSD(t, "100", f.balance(t, f.wallet.ID))
	f.assertFold(t, f.wallet.ID)

	pool, err := f.store.GetAdminWallet(ctx, f.btc.ID)
	require.NoError(t, err)
	assertUSD(t, "100", pool.AmountInUSD)
}

func TestLedger_RejectLeavesBalance(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, models.TransactionTypeCredit, 10, false)

	rejected, err := f.svc.RejectTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, rejected.Status)
	assertUSD(t, "0", f.balance(t, f.wallet.ID))
}

func TestLedger_SettleImmediately(t *testing.T) {
	f := newFixture(t)
	tx, err := f.svc.CreateTransaction(context.Background(), CreateTransactionInput{
		ClientWalletID:    f.wallet.ID,
		Type:              models.TransactionTypeCredit,
		RawAmount:         decimal.NewFromInt(5),
		IsAdminCreated:    true,
		SettleImmediately: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, tx.Status)
	assertUSD(t, "10", f.balance(t, f.wallet.ID))

	_, err = f.svc.ApproveTransaction(context.Background(), tx.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadySettled)
}

func TestLedger_SecondTransition(t *testing.T) {
	tests := []struct {
		name   string
		first  func(Service, uint) (*models.Transaction, error)
		second func(Service, uint) (*models.Transaction, error)
	}{
		{"approve twice", approve, approve},
		{"reject after approve", approve, reject},
		{"approve after reject", reject, approve},
		{"reject twice", reject, reject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tx := f.create(t, models.TransactionTypeCredit, 100, false)

			_, err := tt.first(f.svc, tx.ID)
			require.NoError(t, err)
			before := f.balance(t, f.wallet.ID)

			_, err = tt.second(f.svc, tx.ID)
			assert.ErrorIs(t, err, domainerrors.ErrAlreadySettled)
			assert.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)
			assert.Equal(t, domainerrors.KindAlreadySettled, domainerrors.KindOf(err))
			assertUSD(t, before.String(), f.balance(t, f.wallet.ID))
		})
	}
}

func approve(s Service, id uint) (*models.Transaction, error) {
	return s.ApproveTransaction(context.Background(), id)
}

func reject(s Service, id uint) (*models.Transaction, error) {
	return s.RejectTransaction(context.Background(), id)
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("amount edit reprices at the current rate", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 100, false)
		f.rates["BTC"] = decimal.NewFromInt(3)

		amount := decimal.NewFromInt(10)
		updated, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{RawAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, updated.Status)
		assertUSD(t, "10", updated.RawAmount)
		assertUSD(t, "3", updated.RateUSD)
		assertUSD(t, "30", updated.AmountInUSD)
		assertUSD(t, "0", f.balance(t, f.wallet.ID))
	})

	t.Run("amount and status in one patch", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeDebit, 100, false)

		amount := decimal.NewFromInt(4)
		status := models.StatusSuccessful
		updated, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{RawAmount: &amount, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccessful, updated.Status)
		assertUSD(t, "-8", updated.AmountInUSD)
		assertUSD(t, "-8", f.balance(t, f.wallet.ID))
	})

	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, false)
		_, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{})
		assert.ErrorIs(t, err, domainerrors.ErrEmptyPatch)
	})

	t.Run("pending is not a target status", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, false)
		status := models.StatusPending
		_, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{Status: &status})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidStatus)
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, false)
		status := models.TransactionStatus("approved")
		_, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{Status: &status})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidStatus)
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, false)
		amount := decimal.Zero
		_, err := f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{RawAmount: &amount})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		status := models.StatusSuccessful
		_, err := f.svc.UpdateTransaction(ctx, 12345, TransactionPatch{Status: &status})
		assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
		assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
	})
}

func TestUpdateTransaction_SettledIsImmutable(t *testing.T) {
	for _, settle := range []func(Service, uint) (*models.Transaction, error){approve, reject} {
		f := newFixture(t)
		ctx := context.Background()
		tx := f.create(t, models.TransactionTypeCredit, 100, true)
		settled, err := settle(f.svc, tx.ID)
		require.NoError(t, err)
		before := f.balance(t, f.wallet.ID)

		amount := decimal.NewFromInt(1)
		_, err = f.svc.UpdateTransaction(ctx, tx.ID, TransactionPatch{RawAmount: &amount})
		assert.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)
		assert.NotErrorIs(t, err, domainerrors.ErrAlreadySettled)

		err = f.svc.DeleteTransaction(ctx, tx.ID)
		assert.ErrorIs(t, err, domainerrors.ErrForbiddenDelete)

		after, err := f.svc.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, settled.Status, after.Status)
		assertUSD(t, settled.AmountInUSD.String(), after.AmountInUSD)
		assertUSD(t, before.String(), f.balance(t, f.wallet.ID))
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("pending admin-created", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, true)
		require.NoError(t, f.svc.DeleteTransaction(ctx, tx.ID))

		_, err := f.svc.GetTransaction(ctx, tx.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
	})

	t.Run("client-created is protected", func(t *testing.T) {
		f := newFixture(t)
		tx := f.create(t, models.TransactionTypeCredit, 1, false)
		err := f.svc.DeleteTransaction(ctx, tx.ID)
		assert.ErrorIs(t, err, domainerrors.ErrForbiddenDelete)
		assert.Equal(t, domainerrors.KindForbiddenDelete, domainerrors.KindOf(err))

		_, err = f.svc.GetTransaction(ctx, tx.ID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.svc.DeleteTransaction(ctx, 999), domainerrors.ErrTransactionNotFound)
	})
}

func TestLedger_ConcurrentApprove(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, models.TransactionTypeCredit, 100, false)
	// A second service on the same store has its own in-process locks, so
	// the conditional update is what decides the race between them.
	other := NewService(f.store, f.rates, Config{}, nil, nil)
	services := []Service{f.svc, f.svc, other, other}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		settled   int
	)
	for _, svc := range services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()
			_, err := svc.ApproveTransaction(context.Background(), tx.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrAlreadySettled):
				settled++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(svc)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, len(services)-1, settled)
	assertUSD(t, "200", f.balance(t, f.wallet.ID))
}

func TestLedger_ConcurrentSettlementsOnOneWallet(t *testing.T) {
	f := newFixture(t)
	other := NewService(f.store, f.rates, Config{}, nil, nil)

	const n = 20
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = f.create(t, models.TransactionTypeCredit, 1, false).ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		svc := f.svc
		if i%2 == 1 {
			svc = other
		}
		wg.Add(1)
		go func(svc Service, id uint) {
			defer wg.Done()
			_, err := svc.ApproveTransaction(context.Background(), id)
			assert.NoError(t, err)
		}(svc, id)
	}
	wg.Wait()

	assertUSD(t, "40", f.balance(t, f.wallet.ID))
	f.assertFold(t, f.wallet.ID)
}

func TestLedger_UnknownSymbolFallsBackAndSettles(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	xyz := &models.AdminWallet{CurrencyName: "Unlisted", Abbreviation: "XYZ"}
	require.NoError(t, store.CreateAdminWallet(ctx, xyz))
	wallet := &models.ClientWallet{ClientID: 1, AdminWalletID: xyz.ID}
	require.NoError(t, store.CreateClientWallet(ctx, wallet))

	feed := feedFunc(func(context.Context, string) (decimal.Decimal, error) {
		return decimal.Zero, exchange.ErrUnknownSymbol
	})
	rates := exchange.NewCachedProvider(feed, exchange.NewMemoryRateCache(0), exchange.ProviderConfig{}, nil, nil)
	svc := NewService(store, rates, Config{}, nil, nil)

	tx, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		ClientWalletID: wallet.ID,
		Type:           models.TransactionTypeCredit,
		RawAmount:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assertUSD(t, "1", tx.RateUSD)
	assertUSD(t, "100", tx.AmountInUSD)

	settled, err := svc.ApproveTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccessful, settled.Status)

	got, err := store.GetClientWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assertUSD(t, "100", got.AmountInUSD)
}

type feedFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

func (f feedFunc) FetchRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return f(ctx, symbol)
}

func TestLedger_SettlementIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := f.create(t, models.TransactionTypeCredit, 100, false)

	f.store.FailOn("UpdateClientWalletBalance", errors.New("disk full"))
	_, err := f.svc.ApproveTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPersistence)
	assert.Equal(t, domainerrors.KindPersistence, domainerrors.KindOf(err))

	got, err := f.svc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status, "status change rolled back with the balance")
	assertUSD(t, "0", f.balance(t, f.wallet.ID))

	f.store.FailOn("UpdateClientWalletBalance", nil)
	_, err = f.svc.ApproveTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assertUSD(t, "200", f.balance(t, f.wallet.ID))
}

func TestLedger_AdminPoolFold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := &models.ClientWallet{ClientID: 43, AdminWalletID: f.btc.ID}
	require.NoError(t, f.store.CreateClientWallet(ctx, second))

	a := f.create(t, models.TransactionTypeCredit, 10, false)
	b, err := f.svc.CreateTransaction(ctx, CreateTransactionInput{
		ClientWalletID: second.ID,
		Type:           models.TransactionTypeCredit,
		RawAmount:      decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveTransaction(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveTransaction(ctx, b.ID)
	require.NoError(t, err)

	pool, err := f.store.GetAdminWallet(ctx, f.btc.ID)
	require.NoError(t, err)
	assertUSD(t, "50", pool.AmountInUSD)
}

func TestLedger_Listing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []uint
	for i := 1; i <= 5; i++ {
		ids = append(ids, f.create(t, models.TransactionTypeCredit, int64(i), false).ID)
	}
	_, err := f.svc.ApproveTransaction(ctx, ids[1])
	require.NoError(t, err)

	pending, err := f.svc.ListPendingTransactions(ctx, Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), pending.Total)
	require.Len(t, pending.Items, 2)
	assert.Equal(t, ids[0], pending.Items[0].ID)
	assert.Equal(t, ids[2], pending.Items[1].ID)

	next, err := f.svc.ListPendingTransactions(ctx, Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, next.Items, 2)
	assert.Equal(t, ids[3], next.Items[0].ID)
	assert.Equal(t, ids[4], next.Items[1].ID)

	all, err := f.svc.ListByClientWallet(ctx, f.wallet.ID, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
	assert.Equal(t, DefaultPageLimit, all.Limit)
	for i, tx := range all.Items {
		assert.Equal(t, ids[i], tx.ID)
	}

	_, err = f.svc.ListByClientWallet(ctx, 999, Page{})
	assert.ErrorIs(t, err, domainerrors.ErrClientWalletNotFound)

	capped, err := f.svc.ListPendingTransactions(ctx, Page{Limit: MaxPageLimit + 1, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, capped.Limit)
	assert.Zero(t, capped.Offset)
}

func TestLedger_WalletSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	credit := f.create(t, models.TransactionTypeCredit, 100, false)
	debit := f.create(t, models.TransactionTypeDebit, 25, false)
	f.create(t, models.TransactionTypeCredit, 5, false)
	for _, id := range []uint{credit.ID, debit.ID} {
		_, err := f.svc.ApproveTransaction(ctx, id)
		require.NoError(t, err)
	}

	summary, err := f.svc.GetWalletSummary(ctx, f.wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTC", summary.Currency)
	assertUSD(t, "150", summary.BalanceUSD)
	assertUSD(t, "200", summary.SuccessfulCreditsUSD)
	assertUSD(t, "-50", summary.SuccessfulDebitsUSD)
	assert.Equal(t, int64(1), summary.PendingCount)
	assertUSD(t, "10", summary.PendingUSD)
}

func TestLedger_Reconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := f.create(t, models.TransactionTypeCredit, 100, false)
	_, err := f.svc.ApproveTransaction(ctx, tx.ID)
	require.NoError(t, err)

	clean, err := f.svc.ReconcileWallet(ctx, f.wallet.ID)
	require.NoError(t, err)
	assert.True(t, clean.Drift.IsZero())

	f.store.SetClientWalletBalance(f.wallet.ID, decimal.NewFromInt(7))
	result, err := f.svc.ReconcileWallet(ctx, f.wallet.ID)
	require.NoError(t, err)
	assertUSD(t, "7", result.Previous)
	assertUSD(t, "200", result.Recomputed)
	assertUSD(t, "193", result.Drift)
	assertUSD(t, "200", f.balance(t, f.wallet.ID))

	f.store.SetClientWalletBalance(f.wallet.ID, decimal.Zero)
	report, err := f.svc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, f.wallet.ID, report.Drifted[0].ClientWalletID)
	f.assertFold(t, f.wallet.ID)

	_, err = f.svc.ReconcileWallet(ctx, 999)
	assert.ErrorIs(t, err, domainerrors.ErrClientWalletNotFound)
}
