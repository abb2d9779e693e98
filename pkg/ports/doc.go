/*
Package ports defines the driven ports (interfaces) of the workbook service.

These interfaces decouple instruction handling from concrete spreadsheet
engines and storage backends.

# Key Interfaces

  - CellWriter: the cell-mutation capability set an applier writes edits to
    (excelize workbook, in-memory sheet).
  - SessionStore: remembers which workbook each client session works on.
  - Locker: serializes read-modify-save cycles on one workbook file, locally
    or across replicas.
*/
package ports
