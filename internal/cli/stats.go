package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/anger-log/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		Long:  "Show total and weekly record counts, average mood improvement and the most common distortions.",
		Run:   runStats,
	}

	cmd.Flags().Bool("trends", false, "Show daily mood and emotion frequency instead")
	cmd.Flags().Bool("db-info", false, "Show database file statistics instead")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	trends, _ := cmd.Flags().GetBool("trends")
	dbInfo, _ := cmd.Flags().GetBool("db-info")

	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	switch {
	case dbInfo:
		sq, ok := a.store.(*store.SQLiteStore)
		if !ok {
			exitErr("stats", fmt.Errorf("--db-info requires the sqlite store driver"))
		}
		info, err := sq.Info(cmd.Context(), a.cfg.Store.Path)
		if err != nil {
			exitErr("stats", err)
		}
		printJSON(cmd.OutOrStdout(), info)
	case trends:
		tr, err := a.svc.Trends(cmd.Context())
		if err != nil {
			exitErr("trends", err)
		}
		printJSON(cmd.OutOrStdout(), tr)
	default:
		st, err := a.svc.Stats(cmd.Context())
		if err != nil {
			exitErr("stats", err)
		}
		printJSON(cmd.OutOrStdout(), st)
	}
}
