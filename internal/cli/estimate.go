package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/uv-alert/internal/uv"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the offline UV estimate for now and the next hours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		now := time.Now().In(cfg.Location())
		for i := 0; i <= 3; i++ {
			at := now.Add(time.Duration(i) * time.Hour)
			v := uv.Estimate(at)
			level := uv.LevelFor(v)
			fmt.Printf("%s  %4.1f  %s %s\n", at.Format("15:04"), v, level.Emoji, level.Label)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}
