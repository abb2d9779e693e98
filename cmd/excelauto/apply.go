package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const cliSession = "cli"

var applyCmd = &cobra.Command{
	Use:   "apply <file.xlsx> [instruction...]",
	Short: "Apply cell instructions to a workbook",
	Long: `Applies cell instructions to one sheet of a workbook and saves it.

Instructions come from the arguments, or from stdin (one per line) when none
are given or the only argument is "-". Blank lines are ignored.`,
	Example: `  excelauto apply report.xlsx --sheet Sheet1 "'Total'@B3#B" "@C3$FF0000"
  cat edits.txt | excelauto apply report.xlsx -s Summary`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sheet, _ := cmd.Flags().GetString("sheet")
		create, _ := cmd.Flags().GetBool("create")

		a, err := newApp(ctx, globalFlagsOf(cmd), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		instructions := args[1:]
		if len(instructions) == 0 || (len(instructions) == 1 && instructions[0] == "-") {
			if instructions, err = readLines(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		if create {
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				if err := a.svc.CreateWorkbook(ctx, cliSession, path); err != nil {
					return err
				}
			}
		}
		if _, err := a.svc.OpenWorkbook(ctx, cliSession, path); err != nil {
			return err
		}

		report, err := a.svc.SetCells(ctx, cliSession, sheet, instructions)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, a.catalog.T("result.set_cells_by_array", report.Applied, len(report.Skipped)))
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "  #%d %s: %s\n", s.Index, s.Reason, s.Instruction)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("sheet", "s", "Sheet1", "Sheet to edit")
	applyCmd.Flags().Bool("create", false, "Create the workbook if it does not exist")
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading instructions: %w", err)
	}
	return lines, nil
}
