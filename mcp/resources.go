package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	lexpdf "github.com/lvillar/lexpdf"
	"github.com/lvillar/lexpdf/document"
)

// RegisterDefaultResources adds the built-in resources to the server.
// Resources use the doc:// scheme with the file path passed as a query
// parameter.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "doc://report",
		Name:        "Compliance Report",
		Description: "Validate a PDF and return the plain-text compliance report. Pass the file path as a query parameter: doc://report?path=/path/to/file.pdf",
		MIMEType:    "text/plain",
		Handler:     handleReportResource,
	})

	s.AddResource(Resource{
		URI:         "doc://text",
		Name:        "Document Text",
		Description: "Extract all text content from a PDF. Pass the file path as a query parameter: doc://text?path=/path/to/file.pdf",
		MIMEType:    "text/plain",
		Handler:     handleTextResource,
	})

	s.AddResource(Resource{
		URI:         "doc://pages",
		Name:        "Page Geometry",
		Description: "Get page count and per-page dimensions from a PDF. Pass the file path as a query parameter: doc://pages?path=/path/to/file.pdf",
		MIMEType:    "application/json",
		Handler:     handlePagesResource,
	})
}

func pathFromURI(uri string) string {
	if idx := strings.Index(uri, "path="); idx >= 0 {
		return uri[idx+len("path="):]
	}
	return ""
}

func handleReportResource(uri string) ([]ResourceContent, error) {
	path := pathFromURI(uri)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' parameter in URI")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	res, err := lexpdf.Validate(data)
	if err != nil {
		return nil, err
	}

	return []ResourceContent{{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     lexpdf.RenderReport(res),
	}}, nil
}

func handleTextResource(uri string) ([]ResourceContent, error) {
	path := pathFromURI(uri)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' parameter in URI")
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	for n, page := range doc.Pages() {
		fmt.Fprintf(&out, "--- Page %d ---\n%s\n\n", n, page.Text())
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     out.String(),
	}}, nil
}

func handlePagesResource(uri string) ([]ResourceContent, error) {
	path := pathFromURI(uri)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' parameter in URI")
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}

	pages := make([]map[string]any, 0, doc.NumPages())
	for n, page := range doc.Pages() {
		pages = append(pages, map[string]any{
			"page":   n,
			"width":  page.Width(),
			"height": page.Height(),
			"rotate": page.Rotation(),
		})
	}
	info := map[string]any{
		"numPages": doc.NumPages(),
		"pages":    pages,
	}

	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}
