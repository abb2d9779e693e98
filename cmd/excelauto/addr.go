package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/excelauto/pkg/address"
	"github.com/spf13/cobra"
)

var addrCmd = &cobra.Command{
	Use:   "addr <ref> | <row> <column>",
	Short: "Convert between A1 references and row/column numbers",
	Example: `  excelauto addr '$AB$12'   # AB12 row=12 column=28
  excelauto addr 12 28      # AB12`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			a, err := address.Decode(args[0])
			if err != nil {
				return fmt.Errorf("%q: %w", args[0], err)
			}
			fmt.Fprintf(out, "%s row=%d column=%d\n", a, a.Row, a.Col)
			return nil
		}

		row, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("row %q: %w", args[0], err)
		}
		col, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("column %q: %w", args[1], err)
		}
		ref, err := address.Encode(uint32(row), uint32(col))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ref)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addrCmd)
}
