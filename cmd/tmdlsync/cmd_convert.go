package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbitools/tmdlsync/internal/grouping"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a grouping dataset between JSON and CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := grouping.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := grouping.WriteFile(dataset, args[1]); err != nil {
			return err
		}
		if !quietFlag {
			fmt.Printf("Converted %d row(s): %s -> %s\n", len(dataset), args[0], args[1])
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a grouping dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := grouping.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid: %d row(s)\n", args[0], len(dataset))
		return nil
	},
}
