package main

import (
	"fmt"

	"github.com/aretw0/excelauto"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of excelauto",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "excelauto version %s\n", excelauto.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
