package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/config"
	"github.com/pbitools/tmdlsync/internal/editor"
	"github.com/pbitools/tmdlsync/internal/grouping"
	"github.com/pbitools/tmdlsync/internal/paths"
)

var (
	updateFromFlag    string
	updateTableFlag   string
	updateYesFlag     bool
	updateKeepFlag    bool
	updateWorkDirFlag string
)

var updateCmd = &cobra.Command{
	Use:   "update <archive.pbip>",
	Short: "Replace the grouping table's data in a PBIP archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archivePath := args[0]

		dataset, err := grouping.ReadFile(updateFromFlag)
		if err != nil {
			return err
		}

		cfg, _ := config.Load(paths.ConfigFile())
		table := updateTableFlag
		if table == "" {
			table = cfg.DefaultTable
		}

		if !updateYesFlag {
			confirm := false
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Replace groupings in %s with %d row(s)?", archivePath, len(dataset))).
				Description("The previous table data is fully discarded. A .bak copy of the archive is kept.").
				Value(&confirm)
			if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
				return err
			}
			if !confirm {
				fmt.Println("Aborted.")
				return nil
			}
		}

		ed := editor.Editor{
			TableName:   table,
			WorkDir:     updateWorkDirFlag,
			KeepScratch: updateKeepFlag,
		}
		if err := ed.Update(archivePath, dataset); err != nil {
			return err
		}

		if !quietFlag {
			fmt.Printf("Updated %s with %d grouping(s). Backup: %s.bak\n", archivePath, len(dataset), archivePath)
		}

		// Remember where the dataset came from; failures here are cosmetic.
		cfg.LastImportPath = updateFromFlag
		config.Save(paths.ConfigFile(), cfg)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateFromFlag, "from", "", "Dataset file to import (.json or .csv)")
	updateCmd.Flags().StringVar(&updateTableFlag, "table", "", "Target table name (default: InstrumentGroupings)")
	updateCmd.Flags().BoolVarP(&updateYesFlag, "yes", "y", false, "Skip the confirmation prompt")
	updateCmd.Flags().BoolVar(&updateKeepFlag, "keep-scratch", false, "Keep the scratch directory for diagnostics")
	updateCmd.Flags().StringVar(&updateWorkDirFlag, "work-dir", "", "Root directory for scratch space (default: OS temp)")
	updateCmd.MarkFlagRequired("from")
}
