package main

import (
	"context"
	"testing"

	"custodia/internal/repositories/memstore"
	"custodia/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSeedPoolsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(memstore.New(), zaptest.NewLogger(t))

	require.NoError(t, seedPools(ctx, svc, zaptest.NewLogger(t)))
	require.NoError(t, seedPools(ctx, svc, zaptest.NewLogger(t)))

	pools, err := svc.ListAdminWallets(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, len(defaultPools))
}
