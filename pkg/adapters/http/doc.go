// Package http serves the workbook service as a JSON API routed with chi.
// Requests are validated against the embedded OpenAPI document before they
// reach a handler.
package http
