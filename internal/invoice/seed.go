// AngelaMos | 2026
// seed.go

package invoice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	seedProducts       = []string{"Laptop", "Mouse", "Keyboard", "Monitor", "Phone", "Headset"}
	seedPaymentMethods = []string{"cash", "visa", "transfer"}
)

type SeedResult struct {
	Removed int64
	Created int
}

type SeedOptions struct {
	Count int
	Days  int
	Now   time.Time
	Rand  *rand.Rand
}

// Seed replaces the user's invoices with Count generated ones spread over
// the last Days days. It is meant for demo and load-testing databases.
func (s *Service) Seed(
	ctx context.Context,
	userID string,
	opts SeedOptions,
) (SeedResult, error) {
	var res SeedResult

	if opts.Rand == nil {
		//nolint:gosec // G404: fake demo data
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.Now.IsZero() {
		opts.Now = s.now()
	}
	opts.Days = max(opts.Days, 0)

	removed, err := s.repo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return res, err
	}
	res.Removed = removed

	for i := range opts.Count {
		inv := fakeInvoice(opts.Rand, userID, opts.Now, opts.Days)
		if err := s.insert(ctx, inv); err != nil {
			return res, fmt.Errorf("seed invoice %d: %w", i, err)
		}
		res.Created++
	}

	return res, nil
}

func fakeInvoice(rng *rand.Rand, userID string, now time.Time, days int) *Invoice {
	lines := make([]LineInput, 1+rng.IntN(4))
	for i := range lines {
		lines[i] = LineInput{
			Name:     seedProducts[rng.IntN(len(seedProducts))],
			Price:    decimal.NewFromInt(int64(50 + rng.IntN(1451))),
			Quantity: int64(1 + rng.IntN(3)),
		}
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	paid := decimal.NewFromInt(rng.Int64N(total.IntPart() + 1))

	inv := &Invoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		ClientPhone:   fmt.Sprintf("01%09d", 100000000+rng.IntN(900000000)),
		PaymentMethod: seedPaymentMethods[rng.IntN(len(seedPaymentMethods))],
		CreatedAt:     now.AddDate(0, 0, -rng.IntN(days+1)),
	}
	inv.Apply(Compute(lines, &paid, decimal.Zero))
	assignItemIDs(inv.Items)

	return inv
}
