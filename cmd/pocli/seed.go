package main

import (
	"database/sql"
	"fmt"

	"github.com/Yahiahu/SCM-sub000/internal/seed"
	"github.com/Yahiahu/SCM-sub000/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
)

func runSeed(c *cli.Context) error {
	fixture, err := seed.ReadFixture(c.String("file"))
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info().Str("file", c.String("file")).Msg("Starting database seeding...")

	if err := seed.Load(c.Context, db, fixture); err != nil {
		return err
	}

	logger.Log.Info().
		Int("suppliers", len(fixture.Suppliers)).
		Int("users", len(fixture.Users)).
		Int("purchase_orders", len(fixture.PurchaseOrders)).
		Int("items", len(fixture.Items)).
		Msg("Database seeding completed successfully!")
	return nil
}
