/*
Package excelauto automates .xlsx workbooks for agents and scripts.

Its core is a compact cell instruction language. One instruction edits one
cell: optional quoted content, a mandatory A1 address, and optional style and
color fields.

	'Total'@B3#B↔️$FFFFFF%1F4E79

sets B3 to "Total", bold and centered, with white text on a dark blue
fill. Instructions are applied in order; an instruction without a usable
address is logged and skipped while the rest of the batch continues.

# Usage

A Service remembers, per client session, which workbook calls operate on and
serializes access to each workbook file.

	svc := excelauto.New()

	ctx := context.Background()
	if err := svc.CreateWorkbook(ctx, "s1", "/tmp/report.xlsx"); err != nil {
		log.Fatal(err)
	}
	report, err := svc.SetCells(ctx, "s1", "Sheet1", []string{
		"'Region'@A1#B",
		"'North'@A2",
	})

The same operations are exposed as MCP tools (pkg/adapters/mcp), over HTTP
(pkg/adapters/http) and by the excelauto command.

# Packages

  - pkg/address: A1 reference codec.
  - pkg/instruction: cell instruction parser.
  - pkg/apply: maps parsed edits onto a ports.CellWriter.
  - pkg/adapters/excel: excelize-backed workbooks.
  - pkg/session: session to workbook mapping and per-file locking.
*/
package excelauto
