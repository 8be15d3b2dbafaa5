package dbmap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Apply executes stmts in a single transaction. The transaction is rolled
// back on the first failing statement.
func Apply(ctx context.Context, db *sql.DB, stmts []string, log *zap.Logger) (err error) {
	if log == nil {
		log = zap.NewNop()
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("loom/dbmap: starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = errors.Join(err, fmt.Errorf("loom/dbmap: rolling back: %w", rerr))
			}
		}
	}()
	for i, stmt := range stmts {
		start := time.Now()
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("loom/dbmap: statement %d: %w", i+1, err)
		}
		log.Debug("migration statement applied", zap.Int("index", i+1), zap.Duration("took", time.Since(start)))
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("loom/dbmap: committing: %w", err)
	}
	log.Info("migration applied", zap.Int("statements", len(stmts)))
	return nil
}

// Script joins stmts into a SQL script.
func Script(stmts []string) string {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(s)
		sb.WriteString(";\n")
	}
	return sb.String()
}
