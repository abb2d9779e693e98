package main

import (
	"encoding/json"

	"github.com/aretw0/excelauto/pkg/apply"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/spf13/cobra"
)

type parsedInstruction struct {
	Index       int               `json:"index"`
	Instruction string            `json:"instruction"`
	Cell        string            `json:"cell,omitempty"`
	Canonical   string            `json:"canonical,omitempty"`
	Edit        *instruction.Edit `json:"edit,omitempty"`
	Skipped     string            `json:"skipped,omitempty"`
	Error       string            `json:"error,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <instruction>...",
	Short: "Show how cell instructions are understood, without touching any file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := make([]parsedInstruction, len(args))
		for i, s := range args {
			p := parsedInstruction{Index: i, Instruction: s}
			e, err := instruction.Parse(s)
			if err != nil {
				p.Skipped = apply.Reason(err)
				p.Error = err.Error()
			} else {
				p.Cell = e.Ref()
				p.Canonical = instruction.Format(e)
				p.Edit = &e
			}
			out[i] = p
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
