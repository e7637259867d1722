package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/anger-log/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [thoughts]",
		Short: "Detect cognitive distortions without saving",
		Long:  "Classify free text against the distortion rules. Nothing is stored.",
		Run:   runAnalyze,
	}

	cmd.Flags().StringP("situation", "s", "", "Situation text")
	cmd.Flags().String("evidence", "", "Evidence text")
	cmd.Flags().Bool("types", false, "List the distortion categories instead")

	RootCmd.AddCommand(cmd)
}

// analyzeResult pairs a finding with its display label.
type analyzeResult struct {
	model.Finding
	Label string `json:"label"`
}

func runAnalyze(cmd *cobra.Command, args []string) {
	situation, _ := cmd.Flags().GetString("situation")
	evidence, _ := cmd.Flags().GetString("evidence")
	types, _ := cmd.Flags().GetBool("types")

	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if types {
		printJSON(cmd.OutOrStdout(), a.svc.Categories())
		return
	}

	findings := a.svc.Analyze(strings.Join(args, " "), situation, evidence)
	out := make([]analyzeResult, 0, len(findings))
	for _, f := range findings {
		out = append(out, analyzeResult{Finding: f, Label: model.DistortionLabel(f.Type)})
	}
	printJSON(cmd.OutOrStdout(), out)
}
