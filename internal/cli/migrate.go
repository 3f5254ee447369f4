package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/serenify-companion/internal/config"
	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/output"
)

func newMigrateCmd() *cobra.Command {
	var sqlitePath string
	var skipMongo bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create PostgreSQL tables and MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			cfg := config.Load()
			out := cmd.OutOrStdout()

			pg, err := database.ConnectPostgres(cfg.PostgresURI)
			if err != nil {
				return fmt.Errorf("connecting to PostgreSQL: %w", err)
			}
			defer pg.Close()
			if err := database.InitPostgresTables(ctx, pg); err != nil {
				return fmt.Errorf("creating PostgreSQL tables: %w", err)
			}
			fmt.Fprintln(out, output.StyleSuccess.Render("✅ PostgreSQL tables ready"))

			if !skipMongo {
				client, db, err := database.Connect(ctx, cfg.MongoURI)
				if err != nil {
					return fmt.Errorf("connecting to MongoDB: %w", err)
				}
				defer database.Disconnect(client)
				if err := database.EnsureMongoIndexes(ctx, db); err != nil {
					return fmt.Errorf("creating MongoDB indexes: %w", err)
				}
				fmt.Fprintln(out, output.StyleSuccess.Render("✅ MongoDB indexes ready"))
			}

			if sqlitePath != "" {
				db, err := database.OpenSQLite(sqlitePath)
				if err != nil {
					return fmt.Errorf("preparing sqlite store: %w", err)
				}
				_ = db.Close()
				fmt.Fprintln(out, output.StyleSuccess.Render("✅ SQLite activity store ready at "+sqlitePath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also create the SQLite activity schema at this path")
	cmd.Flags().BoolVar(&skipMongo, "skip-mongo", false, "Skip MongoDB index creation")
	return cmd
}
