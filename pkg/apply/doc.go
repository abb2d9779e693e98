/*
Package apply writes parsed cell instructions to a ports.CellWriter.

Writes follow a fixed order per instruction: content, alignment, bold,
italic, underline, foreground colour, background colour. Only fields the
instruction actually set are written. Run processes a whole batch
sequentially, logging and skipping instructions that fail to parse.
*/
package apply
