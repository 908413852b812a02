// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/invoice"
	"github.com/carterperez-dev/templates/invoice-backend/internal/user"
	"github.com/carterperez-dev/templates/invoice-backend/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	email := flag.String("email", "", "account to seed (defaults to the oldest account)")
	count := flag.Int("count", 1000, "number of invoices to generate")
	days := flag.Int("days", 90, "spread invoices over this many past days")
	flag.Parse()

	if err := run(*configPath, *email, *count, *days); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, email string, count, days int) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed a production database")
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return err
	}

	users := user.NewRepository(db.DB)

	var owner *user.User
	if email != "" {
		owner, err = users.GetByEmail(ctx, core.NormalizeEmail(email))
	} else {
		owner, err = users.GetOldest(ctx)
	}
	if err != nil {
		return fmt.Errorf("find account to seed (create a user first): %w", err)
	}

	svc := invoice.NewService(invoice.NewRepository(db.DB))

	res, err := svc.Seed(ctx, owner.ID, invoice.SeedOptions{
		Count: count,
		Days:  days,
	})
	if err != nil {
		return err
	}

	logger.Info("invoices seeded",
		"user_id", owner.ID,
		"email", owner.Email,
		"removed", res.Removed,
		"created", res.Created,
	)
	return nil
}
