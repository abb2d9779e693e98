package excelauto_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/pkg/domain"
)

// ExampleService_SetCells formats a small table with cell instructions.
func ExampleService_SetCells() {
	dir, err := os.MkdirTemp("", "excelauto")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	svc := excelauto.New()
	ctx := context.Background()

	if err := svc.CreateWorkbook(ctx, "demo", filepath.Join(dir, "report.xlsx")); err != nil {
		log.Fatal(err)
	}

	report, err := svc.SetCells(ctx, "demo", "Sheet1", []string{
		"'Region'@A1#B↔️%D9E1F2",
		"'Sales'@B1#B↔️%D9E1F2",
		"'North'@A2",
		"'1200'@B2#➡️",
		"'no address here'",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("applied=%d skipped=%d\n", report.Applied, len(report.Skipped))

	res, err := svc.GetRange(ctx, "demo", excelauto.RangeQuery{
		Sheet:     "Sheet1",
		Range:     domain.Range{FirstRow: 1, FirstCol: 1, LastRow: 2, LastCol: 2},
		WithCoord: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Cells)

	// Output:
	// applied=4 skipped=1
	// [Region@A1 Sales@B1 North@A2 1200@B2]
}
