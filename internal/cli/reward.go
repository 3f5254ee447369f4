package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/serenify-companion/internal/output"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

func newRewardCmd(opts *rootOptions) *cobra.Command {
	var minutes float64

	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Show the xp and badge earned for a number of minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes < 0 {
				return fmt.Errorf("--minutes must not be negative")
			}
			reward := services.CalculateReward(minutes)
			if opts.json {
				return writeJSON(cmd, reward)
			}
			output.RenderReward(cmd.OutOrStdout(), reward)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Lifetime minutes")
	return cmd
}
