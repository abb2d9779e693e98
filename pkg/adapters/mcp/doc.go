// Package mcp exposes the workbook service as Model Context Protocol tools
// over stdio or SSE, using github.com/mark3labs/mcp-go.
package mcp
