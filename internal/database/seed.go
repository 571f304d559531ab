package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SeedExample is one row of the development seed data.
type SeedExample struct {
	Name        string
	Description string
	Status      string
}

// ExampleSeed is the data inserted by Seed.
var ExampleSeed = []SeedExample{
	{Name: "Example 1", Description: "This is the first example item", Status: "active"},
	{Name: "Example 2", Description: "This is the second example item", Status: "active"},
	{Name: "Example 3", Description: "This is the third example item", Status: "inactive"},
}

// Seed replaces the content of the examples table with ExampleSeed in one transaction.
func (db *Database) Seed(ctx context.Context, logger *zerolog.Logger) error {
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM examples`); err != nil {
			return fmt.Errorf("clearing examples: %w", err)
		}

		batch := &pgx.Batch{}
		for _, row := range ExampleSeed {
			batch.Queue(
				`INSERT INTO examples (name, description, status) VALUES ($1, $2, $3)`,
				row.Name, row.Description, row.Status,
			)
		}

		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("seeding examples: %w", err)
	}

	logger.Info().Int("rows", len(ExampleSeed)).Msg("seeded examples table")
	return nil
}
