package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/anger-log/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", store.DefaultListLimit, "Max results")
	cmd.Flags().IntP("offset", "o", 0, "Records to skip")
	cmd.Flags().Bool("summary", false, "One line per record: id, date, situation")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	summary, _ := cmd.Flags().GetBool("summary")

	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	records, err := a.svc.List(cmd.Context(), limit, offset)
	if err != nil {
		exitErr("list", err)
	}

	if summary {
		for _, r := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", r.ID, r.Date, r.Situation)
		}
		return
	}

	printJSON(cmd.OutOrStdout(), records)
}
