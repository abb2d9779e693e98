package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "excelauto",
	Short: "Spreadsheet automation over MCP and HTTP",
	Long: `excelauto edits .xlsx workbooks through compact cell instructions such as
'Total'@B3#↔B$FFFFFF%1F4E78, exposed as MCP tools, an HTTP API and this CLI.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs")
}

// globalFlags are the persistent flags resolved for one invocation.
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func globalFlagsOf(cmd *cobra.Command) globalFlags {
	var g globalFlags
	g.configPath, _ = cmd.Flags().GetString("config")
	g.logLevel, _ = cmd.Flags().GetString("log-level")
	g.logJSON, _ = cmd.Flags().GetBool("log-json")
	return g
}
