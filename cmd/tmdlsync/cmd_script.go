package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/config"
	"github.com/pbitools/tmdlsync/internal/grouping"
	"github.com/pbitools/tmdlsync/internal/paths"
	"github.com/pbitools/tmdlsync/internal/script"
	"github.com/pbitools/tmdlsync/internal/tmdl"
)

var (
	scriptTableFlag  string
	scriptOutDirFlag string
)

var scriptCmd = &cobra.Command{
	Use:   "script <file>",
	Short: "Stage a dataset as TSV and generate a Tabular Editor script for it",
	Long:  "Writes the dataset as a TSV file plus a C# script that clears the target table and re-imports the TSV, for use with Tabular Editor against a live model.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := grouping.ReadFile(args[0])
		if err != nil {
			return err
		}

		cfg, _ := config.Load(paths.ConfigFile())
		table := scriptTableFlag
		if table == "" {
			table = cfg.DefaultTable
		}
		if table == "" {
			table = tmdl.DefaultTableName
		}

		outDir := scriptOutDirFlag
		if outDir == "" {
			outDir = os.TempDir()
		}

		tsvPath, err := script.WriteTSV(dataset, outDir, table)
		if err != nil {
			return err
		}
		scriptPath, err := script.WriteScript(outDir, table, tsvPath)
		if err != nil {
			return err
		}

		if !quietFlag {
			fmt.Printf("Staged data:  %s\nScript:       %s\n", tsvPath, scriptPath)
		}

		if cfg.TabularEditorPath == "" {
			slog.Warn("tabular_editor_path not configured; run the script manually")
		} else if _, err := os.Stat(cfg.TabularEditorPath); err != nil {
			slog.Warn("configured Tabular Editor executable not found", "path", cfg.TabularEditorPath)
		}
		return nil
	},
}

func init() {
	scriptCmd.Flags().StringVar(&scriptTableFlag, "table", "", "Target table name (default: InstrumentGroupings)")
	scriptCmd.Flags().StringVar(&scriptOutDirFlag, "out-dir", "", "Directory for the TSV and script (default: OS temp)")
}
