package main

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/syssam/loom/compiler"
	"github.com/syssam/loom/compiler/dbmap"
	"github.com/syssam/loom/schema"
)

// drivers maps providers to database/sql driver names.
var drivers = map[schema.Provider]string{
	schema.ProviderSQLite:   "sqlite",
	schema.ProviderPostgres: "postgres",
	schema.ProviderMySQL:    "mysql",
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables of the models",
		Long: `Plan the tables of the models and apply them to db.url in one transaction.

With --dry-run the statements are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(root.configFile)
			if err != nil {
				return err
			}
			log, err := newLogger(root.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			res, err := compile(ctx, s, log, compiler.WithoutTypes())
			if err != nil {
				return err
			}
			if dryRun {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dbmap.Script(res.Migration))
				return err
			}
			driver, ok := drivers[res.Provider()]
			if !ok {
				return fmt.Errorf("no database driver for provider %q", res.Provider())
			}
			if s.DB.URL == "" {
				return fmt.Errorf("db.url is not set (LOOM_DB_URL)")
			}
			db, err := sql.Open(driver, s.DB.URL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			log.Info("applying migration", zap.String("driver", driver), zap.Int("statements", len(res.Migration)))
			return dbmap.Apply(ctx, db, res.Migration, log)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the statements instead of applying them")
	return cmd
}
