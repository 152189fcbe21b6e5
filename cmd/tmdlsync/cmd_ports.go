package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/ports"
)

var (
	portsAllFlag  bool
	portsPickFlag bool
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List local ports a Power BI Desktop model may be listening on",
	RunE: func(cmd *cobra.Command, args []string) error {
		listeners, err := ports.Detect(cmd.Context())
		if err != nil {
			return err
		}

		candidates := listeners
		if !portsAllFlag {
			candidates = ports.Candidates(listeners)
		}
		if len(candidates) == 0 {
			fmt.Println("No candidate ports found. Is Power BI Desktop running with a model open?")
			return nil
		}

		if portsPickFlag {
			items := make([]string, 0, len(candidates))
			for _, p := range candidates {
				items = append(items, strconv.Itoa(p))
			}
			choice, err := runPicker("Select a Power BI port", items)
			if err != nil {
				return err
			}
			if choice != "" {
				fmt.Println(choice)
			}
			return nil
		}

		for _, p := range candidates {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	portsCmd.Flags().BoolVar(&portsAllFlag, "all", false, "List all loopback listeners, not just Power BI ranges")
	portsCmd.Flags().BoolVar(&portsPickFlag, "pick", false, "Pick one port interactively and print it")
}
