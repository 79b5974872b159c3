// Package lexpdf validates court filings for formatting compliance and
// stamps them with sequential Bates numbers.
//
// The engine is a pure transform over in-memory PDF buffers: Validate
// inspects a document against margin, font, and page-standard rules and
// returns a structured ValidationResult; Annotate returns a new
// document with a Bates stamp overlaid on every page. RenderReport and
// RenderReportPDF turn a ValidationResult into a filing-ready report.
//
// No network or disk I/O happens inside the engine; callers source the
// input buffer and persist the outputs. Calls for different documents
// may run fully in parallel.
package lexpdf
