package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/anger-log/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Record a journal entry",
		Long: `Record a journal entry. Fields come from flags, or a JSON record is
read from stdin when --situation is not given.`,
		Run: runPut,
	}

	cmd.Flags().String("date", "", "Calendar date YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("situation", "s", "", "What happened")
	cmd.Flags().StringSliceP("emotion", "e", nil, "Emotion as type:intensity, repeatable (e.g. 怒り:80)")
	cmd.Flags().StringP("thoughts", "t", "", "Automatic thoughts")
	cmd.Flags().String("evidence", "", "Evidence supporting the thoughts")
	cmd.Flags().String("counter-evidence", "", "Evidence against the thoughts")
	cmd.Flags().String("balanced", "", "Balanced thinking")
	cmd.Flags().Int("mood-before", 0, "Mood before reflection (0-100)")
	cmd.Flags().Int("mood-after", 0, "Mood after reflection (0-100)")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	var cand model.Candidate
	situation, _ := cmd.Flags().GetString("situation")

	if situation == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			exitErr("put", fmt.Errorf("--situation is required (or pipe a JSON record via stdin)"))
		}
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		if err := json.Unmarshal(b, &cand); err != nil {
			exitErr("parse json", err)
		}
	} else {
		c, err := candidateFromFlags(cmd)
		if err != nil {
			exitErr("put", err)
		}
		cand = c
	}
	if cand.Date == "" {
		cand.Date = time.Now().Format(model.DateLayout)
	}

	a, err := openApp(cmd, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	rec, err := a.svc.Create(cmd.Context(), cand)
	if err != nil {
		exitErr("put", err)
	}

	b, _ := json.Marshal(rec)
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func candidateFromFlags(cmd *cobra.Command) (model.Candidate, error) {
	var c model.Candidate
	c.Date, _ = cmd.Flags().GetString("date")
	c.Situation, _ = cmd.Flags().GetString("situation")
	c.Thoughts, _ = cmd.Flags().GetString("thoughts")
	c.Evidence, _ = cmd.Flags().GetString("evidence")
	c.CounterEvidence, _ = cmd.Flags().GetString("counter-evidence")
	c.BalancedThinking, _ = cmd.Flags().GetString("balanced")
	c.MoodBefore, _ = cmd.Flags().GetInt("mood-before")
	c.MoodAfter, _ = cmd.Flags().GetInt("mood-after")

	raw, _ := cmd.Flags().GetStringSlice("emotion")
	emotions, err := parseEmotions(raw)
	if err != nil {
		return c, err
	}
	c.Emotions = emotions
	return c, nil
}

// parseEmotions parses "type:intensity" pairs. Range checks are left to
// journal validation.
func parseEmotions(raw []string) ([]model.Emotion, error) {
	var out []model.Emotion
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		i := strings.LastIndex(r, ":")
		if i < 0 {
			return nil, fmt.Errorf("emotion %q: expected type:intensity", r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(r[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("emotion %q: intensity must be an integer", r)
		}
		out = append(out, model.Emotion{Type: strings.TrimSpace(r[:i]), Intensity: n})
	}
	return out, nil
}
