// Package cli contains the cobra command tree for companionctl.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/serenify-companion/internal/output"
)

var appVersion = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	appVersion = v
}

type rootOptions struct {
	noColor bool
	json    bool
}

// NewRootCmd builds a fresh command tree. Each call gets its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "companionctl",
		Short: "Operator tooling for the Serenify companion backend",
		Long: `companionctl inspects activity dashboards and rewards and prepares the
backing stores, using the same configuration (.env / environment) as the server.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || !output.IsTerminal(os.Stdout) {
				output.SetNoColor(true)
			}
		},
	}

	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Output as JSON")

	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newRewardCmd(opts))
	root.AddCommand(newMigrateCmd())
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded .env")
	}
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
