package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a record by id",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("get", fmt.Errorf("invalid id %q", args[0]))
	}

	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	rec, err := a.svc.Get(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}

	printJSON(cmd.OutOrStdout(), rec)
}
