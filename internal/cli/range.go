package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "range <start-date> <end-date>",
		Short: "List records dated within an inclusive range",
		Long:  "List records whose date falls within [start-date, end-date], both YYYY-MM-DD, newest first.",
		Args:  cobra.ExactArgs(2),
		Run:   runRange,
	}

	RootCmd.AddCommand(cmd)
}

func runRange(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	records, err := a.svc.Range(cmd.Context(), args[0], args[1])
	if err != nil {
		exitErr("range", err)
	}

	printJSON(cmd.OutOrStdout(), records)
}
