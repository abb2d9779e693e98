package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/excelauto"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EXCELAUTO_REDIS_ADDR", "")
	t.Setenv("EXCELAUTO_LANG_FILE", "")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of the command tree to its default, since
// the tree is shared across test runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "excelauto version "+excelauto.Version+"\n", out)
}

func TestAddr(t *testing.T) {
	out, err := run(t, "", "addr", "$ab$12")
	require.NoError(t, err)
	assert.Equal(t, "AB12 row=12 column=28\n", out)

	out, err = run(t, "", "addr", "12", "28")
	require.NoError(t, err)
	assert.Equal(t, "AB12\n", out)

	_, err = run(t, "", "addr", "0", "1")
	assert.Error(t, err)
	_, err = run(t, "", "addr", "12A")
	assert.NoError(t, err, "decoding is lenient about ordering")
	_, err = run(t, "", "addr", "A")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	out, err := run(t, "", "parse", "'x'@c3#B$ff0000", "'orphan'")
	require.NoError(t, err)

	var got []parsedInstruction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "C3", got[0].Cell)
	assert.Equal(t, "'x'@C3#B$FF0000", got[0].Canonical)
	assert.Empty(t, got[0].Skipped)
	assert.Equal(t, "missing_address", got[1].Skipped)
	assert.Nil(t, got[1].Edit)
}

func TestApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "", "apply", path, "'Total'@B3#B", "nope", "--create")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 1 instruction(s), skipped 1")
	assert.Contains(t, out, "#1 missing_address: nope")

	out, err = run(t, "'42'@C3\n\n@B3#b\n", "apply", path, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 instruction(s), skipped 0")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
	v, err = f.GetCellValue("Sheet1", "C3")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestApply_MissingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "created.xlsx")
	_, err := run(t, "", "apply", path, "'x'@A1", "--create")
	require.NoError(t, err)

	// --create from the previous run must not stick.
	_, err = run(t, "", "apply", filepath.Join(t.TempDir(), "missing.xlsx"), "'x'@A1")
	assert.Error(t, err)
}

func TestApply_OutOfGridSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "", "apply", path, "'one'@A1", "'far'@A9999999", "'two'@A2", "--create")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 instruction(s), skipped 1")
	assert.Contains(t, out, "#1 out_of_grid: 'far'@A9999999")
}

func TestGrammar(t *testing.T) {
	out, err := run(t, "", "grammar")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell instructions")
}
