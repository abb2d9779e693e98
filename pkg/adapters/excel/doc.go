// Package excel implements workbook access and ports.CellWriter on top of
// github.com/xuri/excelize/v2.
package excel
