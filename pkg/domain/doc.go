/*
Package domain contains the core models shared by the excelauto packages.

It is kept pure and free of I/O, following Hexagonal Architecture
principles: adapters in pkg/adapters implement the ports in pkg/ports using
these types.

# Key Entities

  - Session: which workbook a client is working on.
  - Range: an inclusive, 1-based rectangle of cells.
  - LifecycleHooks: callbacks fired per instruction and per tool call.
  - Sentinel errors (ErrNoWorkbook, ErrSheetNotFound, ...) that adapters map
    onto MCP messages and HTTP status codes.
*/
package domain
