package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/config"
	"github.com/pbitools/tmdlsync/internal/editor"
	"github.com/pbitools/tmdlsync/internal/grouping"
	"github.com/pbitools/tmdlsync/internal/paths"
)

var (
	exportOutFlag   string
	exportTableFlag string
)

var exportCmd = &cobra.Command{
	Use:   "export <archive.pbip>",
	Short: "Read the grouping table's data out of a PBIP archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.Load(paths.ConfigFile())
		table := exportTableFlag
		if table == "" {
			table = cfg.DefaultTable
		}

		ed := editor.Editor{TableName: table}
		dataset, err := ed.Extract(args[0])
		if err != nil {
			return err
		}
		if dataset == nil {
			fmt.Println("No groupings found.")
			return nil
		}

		if exportOutFlag == "" {
			printDataset(dataset)
			return nil
		}

		if err := grouping.WriteFile(dataset, exportOutFlag); err != nil {
			return err
		}
		if !quietFlag {
			fmt.Printf("Wrote %d grouping(s) to %s\n", len(dataset), exportOutFlag)
		}

		cfg.LastExportPath = exportOutFlag
		config.Save(paths.ConfigFile(), cfg)
		return nil
	},
}

func printDataset(d grouping.Dataset) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTRUMENT ID\tFIRST GROUP\tSECOND GROUP\tTHIRD GROUP")
	for _, row := range d {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.InstrumentID, row.FirstGroup, row.SecondGroup, row.ThirdGroup)
	}
	w.Flush()
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "Write to a .json or .csv file instead of stdout")
	exportCmd.Flags().StringVar(&exportTableFlag, "table", "", "Source table name (default: InstrumentGroupings)")
}
