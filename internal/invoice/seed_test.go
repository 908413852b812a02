// AngelaMos | 2026
// seed_test.go

package invoice

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestService_Seed(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := NewService(repo)
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), "u1", CreateInvoiceRequest{
		Items: []ItemRequest{{Name: "old", Price: decimal.NewFromInt(1), Quantity: 1}},
	})
	require.NoError(t, err)

	res, err := svc.Seed(context.Background(), "u1", SeedOptions{
		Count: 50,
		Days:  90,
		Now:   now,
		Rand:  rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Removed)
	require.Equal(t, 50, res.Created)
	require.Len(t, repo.invoices, 50)

	earliest := now.AddDate(0, 0, -90)
	for _, inv := range repo.invoices {
		require.Equal(t, "u1", inv.UserID)
		require.NotEmpty(t, inv.Items)
		require.LessOrEqual(t, len(inv.Items), 4)
		require.False(t, inv.CreatedAt.Before(earliest))
		require.False(t, inv.CreatedAt.After(now))
		require.False(t, inv.PaidAmount.GreaterThan(inv.Total))

		recomputed := Compute(LinesFromItems(inv.Items), &inv.PaidAmount, decimal.Zero)
		require.True(t, recomputed.Total.Equal(inv.Total))
		require.Equal(t, recomputed.Status, inv.Status)
	}
}
