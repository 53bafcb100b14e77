// Command seed creates the database schema and, with -demo, a handful of
// sample receipts for local development.
package main

import (
	"context"
	"flag"

	"emisor/internal/config"
	"emisor/internal/core/types"
	"emisor/internal/domain/receipt"
	"emisor/internal/infrastructure/storage/postgres"
	"emisor/internal/infrastructure/storage/postgres/receipt_repo"
	"emisor/pkg/logger"
)

func main() {
	demo := flag.Bool("demo", false, "insert demo receipts after creating the schema")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load config", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN()))
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal(ctx, "failed to create schema", "error", err)
	}
	logger.Info(ctx, "schema ready", "database", cfg.DB.Name)

	if !*demo {
		return
	}

	if err := seedDemoReceipts(ctx, pool); err != nil {
		logger.Fatal(ctx, "failed to seed demo receipts", "error", err)
	}
}

func seedDemoReceipts(ctx context.Context, pool *postgres.Pool) error {
	txManager := postgres.NewTxManager(pool)
	repo := receipt_repo.NewReceiptRepo(txManager)
	service := receipt.NewService(repo, txManager)

	recipientTaxID := "20987654321"
	recipientName := "Comercial Andina SAC"

	inputs := []receipt.CreateInput{
		{
			Kind:           receipt.KindInvoice,
			Series:         "F001",
			IssuerTaxID:    "20123456789",
			IssuerName:     "Demo Emisor SA",
			RecipientTaxID: &recipientTaxID,
			RecipientName:  &recipientName,
			Items: []receipt.ItemInput{
				{Description: "Consulting services", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("1000.00")},
				{Description: "Support hours", Quantity: types.MustMoney("2.5"), UnitPrice: types.MustMoney("150.00")},
			},
		},
		{
			Kind:        receipt.KindSimplifiedReceipt,
			Series:      "B001",
			IssuerTaxID: "20123456789",
			IssuerName:  "Demo Emisor SA",
			Items: []receipt.ItemInput{
				{Description: "Coffee beans 1kg", Quantity: types.MustMoney("2"), UnitPrice: types.MustMoney("50.00")},
				{Description: "Filters", Quantity: types.MustMoney("3"), UnitPrice: types.MustMoney("30.00")},
			},
		},
	}

	for _, in := range inputs {
		created, err := service.Create(ctx, in)
		if err != nil {
			return err
		}
		logger.Info(ctx, "demo receipt issued",
			"series", created.Series,
			"number", created.Number,
			"total", created.Total,
		)
	}

	return nil
}
