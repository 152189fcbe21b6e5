package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/editor"
	"github.com/pbitools/tmdlsync/internal/grouping"
)

var (
	compareTableFlag string
	compareOutFlag   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <archive.pbip> <file>",
	Short: "Compare a dataset file against the groupings in a PBIP archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := editor.Editor{TableName: compareTableFlag}
		current, err := ed.Extract(args[0])
		if err != nil {
			return err
		}

		desired, err := grouping.ReadFile(args[1])
		if err != nil {
			return err
		}

		diff := grouping.Compare(current, desired)
		report := formatDiff(diff)

		if compareOutFlag != "" {
			if err := os.WriteFile(compareOutFlag, []byte(report), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if !quietFlag {
				fmt.Printf("Wrote comparison to %s\n", compareOutFlag)
			}
			return nil
		}
		fmt.Print(report)
		return nil
	},
}

func formatDiff(diff grouping.Diff) string {
	if diff.IsEmpty() {
		return fmt.Sprintf("No differences (%d row(s) identical).\n", diff.Unchanged)
	}

	var sb strings.Builder
	if len(diff.Added) > 0 {
		fmt.Fprintf(&sb, "Added (%d):\n", len(diff.Added))
		for _, row := range diff.Added {
			fmt.Fprintf(&sb, "  + %s: %s / %s / %s\n", row.InstrumentID, row.FirstGroup, row.SecondGroup, row.ThirdGroup)
		}
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(&sb, "Removed (%d):\n", len(diff.Removed))
		for _, row := range diff.Removed {
			fmt.Fprintf(&sb, "  - %s: %s / %s / %s\n", row.InstrumentID, row.FirstGroup, row.SecondGroup, row.ThirdGroup)
		}
	}
	if len(diff.Changed) > 0 {
		fmt.Fprintf(&sb, "Changed (%d):\n", len(diff.Changed))
		for _, c := range diff.Changed {
			fmt.Fprintf(&sb, "  ~ %s: %s / %s / %s -> %s / %s / %s\n", c.ID,
				c.Before.FirstGroup, c.Before.SecondGroup, c.Before.ThirdGroup,
				c.After.FirstGroup, c.After.SecondGroup, c.After.ThirdGroup)
		}
	}
	fmt.Fprintf(&sb, "Unchanged: %d\n", diff.Unchanged)
	return sb.String()
}

func init() {
	compareCmd.Flags().StringVar(&compareTableFlag, "table", "", "Table name in the archive (default: InstrumentGroupings)")
	compareCmd.Flags().StringVar(&compareOutFlag, "out", "", "Write the comparison report to a file")
}
