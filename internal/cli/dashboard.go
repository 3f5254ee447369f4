package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/serenify-companion/internal/config"
	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/output"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

const commandTimeout = 30 * time.Second

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var userID, sqlitePath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show a user's activity dashboard",
		Long: `Load every activity record for a user and print the dashboard summary:
total minutes, sessions, streak, last activity and the per-type breakdown.

Records are read from MongoDB (MONGODB_URI) unless --sqlite points at a local
activity database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			store, closeStore, err := openActivityStore(ctx, sqlitePath)
			if err != nil {
				return err
			}
			defer closeStore()

			summary, err := services.NewActivityService(store, nil, nil).Dashboard(ctx, userID)
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd, summary)
			}
			output.RenderDashboard(cmd.OutOrStdout(), userID, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to summarise")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Read records from this SQLite file instead of MongoDB")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// openActivityStore returns the SQLite store when path is set, otherwise the
// MongoDB store from configuration.
func openActivityStore(ctx context.Context, sqlitePath string) (services.ActivityStore, func(), error) {
	if sqlitePath != "" {
		db, err := database.OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return database.NewSQLiteActivityStore(db), func() { _ = db.Close() }, nil
	}

	cfg := config.Load()
	client, db, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	return database.NewMongoActivityStore(db), func() { _ = database.Disconnect(client) }, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
