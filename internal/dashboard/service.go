// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Report aggregates the caller's invoices for rangeToken. The recent list
// ignores the window.
func (s *Service) Report(
	ctx context.Context,
	userID, rangeToken string,
) (report *Report, err error) {
	window := ResolveWindow(rangeToken, s.now())

	ctx, span := core.StartSpan(ctx, "dashboard.Report",
		attribute.String("dashboard.range", string(window.Range)),
	)
	defer func() { core.EndSpan(span, err) }()

	var (
		rows   []InvoiceRow
		recent []RecentInvoice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (gerr error) {
		rows, gerr = s.repo.InvoicesSince(gctx, userID, window.Start)
		return gerr
	})
	g.Go(func() (gerr error) {
		recent, gerr = s.repo.RecentInvoices(gctx, userID, recentLimit)
		return gerr
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	out := Aggregate(rows, window)
	if recent != nil {
		out.RecentInvoices = recent
	}

	return &out, nil
}
