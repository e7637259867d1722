package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records as JSON",
		Long:  "Export every journal record as a JSON array in id order. The output can be fed back to import.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	records, err := a.svc.Export(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), records)
}
