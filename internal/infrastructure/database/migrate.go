package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the idempotent schema (CREATE ... IF NOT EXISTS)
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Info().Msg("[DATABASE] Schema up to date")
	return nil
}
