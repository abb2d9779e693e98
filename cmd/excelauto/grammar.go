package main

import (
	"github.com/aretw0/excelauto/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Describe the cell instruction syntax",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.PrintGrammar(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}
