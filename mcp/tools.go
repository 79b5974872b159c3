package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lexpdf "github.com/lvillar/lexpdf"
	"github.com/lvillar/lexpdf/bates"
	"github.com/lvillar/lexpdf/document"
)

// RegisterDefaultTools adds the built-in compliance tools to the
// server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(validateDocumentTool())
	s.AddTool(complianceReportTool())
	s.AddTool(batesStampTool())
	s.AddTool(splitVolumesTool())
	s.AddTool(documentInfoTool())
	s.AddTool(extractTextTool())
}

func validateDocumentTool() Tool {
	return Tool{
		Name:        "validate_document",
		Description: "Validate a PDF filing against formatting-compliance rules (margins, fonts, page standards). Returns a plain-text report plus the structured result as JSON.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the PDF file",
				},
				"strict": map[string]any{
					"type":        "boolean",
					"description": "Treat every failing check as an error, not only margin failures",
				},
			},
			"required": []string{"path"},
		},
		Handler: handleValidateDocument,
	}
}

func handleValidateDocument(args map[string]any) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ToolResult{}, fmt.Errorf("reading document: %w", err)
	}

	var opts []lexpdf.Option
	if strict, _ := args["strict"].(bool); strict {
		opts = append(opts, lexpdf.WithStrictChecks())
	}

	res, err := lexpdf.Validate(data, opts...)
	if err != nil {
		return ToolResult{}, err
	}

	jsonBytes, _ := json.MarshalIndent(res, "", "  ")
	return ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: lexpdf.RenderReport(res)},
			{Type: "text", Text: string(jsonBytes), MIMEType: "application/json"},
		},
	}, nil
}

func complianceReportTool() Tool {
	return Tool{
		Name:        "compliance_report",
		Description: "Validate a PDF filing and write the compliance report as a PDF certificate.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPath": map[string]any{
					"type":        "string",
					"description": "Path to the PDF to validate",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Path for the report PDF",
				},
			},
			"required": []string{"inputPath", "outputPath"},
		},
		Handler: handleComplianceReport,
	}
}

func handleComplianceReport(args map[string]any) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	outputPath, _ := args["outputPath"].(string)
	if inputPath == "" || outputPath == "" {
		return ToolResult{}, fmt.Errorf("inputPath and outputPath are required")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return ToolResult{}, fmt.Errorf("reading document: %w", err)
	}
	res, err := lexpdf.Validate(data)
	if err != nil {
		return ToolResult{}, err
	}
	report, err := lexpdf.RenderReportPDF(res)
	if err != nil {
		return ToolResult{}, err
	}
	if err := os.WriteFile(outputPath, report, 0644); err != nil {
		return ToolResult{}, fmt.Errorf("writing report: %w", err)
	}

	status := "FAILED"
	if res.IsValid {
		status = "PASSED"
	}
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Compliance report written to %s (status: %s, %d errors, %d warnings)",
				outputPath, status, len(res.Errors), len(res.Warnings)),
		}},
	}, nil
}

func batesStampTool() Tool {
	return Tool{
		Name:        "bates_stamp",
		Description: "Stamp every page of a PDF with a sequential Bates number (prefix + zero-padded number + suffix) at a configurable position.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPath": map[string]any{
					"type":        "string",
					"description": "Path to the input PDF",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Path for the stamped output PDF",
				},
				"prefix": map[string]any{
					"type":        "string",
					"description": "Text before the number, e.g. 'DOC-'",
				},
				"startNumber": map[string]any{
					"type":        "number",
					"description": "First number in the sequence (default: 1)",
				},
				"suffix": map[string]any{
					"type":        "string",
					"description": "Text after the number",
				},
				"position": map[string]any{
					"type":        "string",
					"description": "Stamp position: bottom-right, bottom-center, bottom-left, top-right, top-center, top-left",
				},
				"fontSize": map[string]any{
					"type":        "number",
					"description": "Stamp font size in points (default: 10)",
				},
			},
			"required": []string{"inputPath", "outputPath"},
		},
		Handler: handleBatesStamp,
	}
}

func handleBatesStamp(args map[string]any) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	outputPath, _ := args["outputPath"].(string)
	if inputPath == "" || outputPath == "" {
		return ToolResult{}, fmt.Errorf("inputPath and outputPath are required")
	}

	opts := bates.Options{}
	if p, ok := args["prefix"].(string); ok {
		opts.Prefix = p
	}
	if s, ok := args["suffix"].(string); ok {
		opts.Suffix = s
	}
	if n, ok := args["startNumber"].(float64); ok {
		opts.Start = int(n)
	}
	if fs, ok := args["fontSize"].(float64); ok {
		opts.FontSize = fs
	}
	if pos, ok := args["position"].(string); ok && pos != "" {
		parsed, ok := bates.ParsePosition(pos)
		if !ok {
			return ToolResult{}, fmt.Errorf("unknown position %q", pos)
		}
		opts.Position = parsed
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return ToolResult{}, fmt.Errorf("reading document: %w", err)
	}
	out, err := lexpdf.Annotate(data, opts)
	if err != nil {
		return ToolResult{}, err
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return ToolResult{}, fmt.Errorf("writing output: %w", err)
	}

	doc, err := document.Load(out)
	if err != nil {
		return ToolResult{}, fmt.Errorf("verifying output: %w", err)
	}
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Stamped %d pages: %s -> %s", doc.NumPages(), inputPath, outputPath),
		}},
	}, nil
}

func splitVolumesTool() Tool {
	return Tool{
		Name:        "split_volumes",
		Description: "Split a PDF into consecutive volumes of at most N pages each, written as volume_001.pdf, volume_002.pdf, ... in the output directory.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPath": map[string]any{
					"type":        "string",
					"description": "Path to the input PDF",
				},
				"outputDir": map[string]any{
					"type":        "string",
					"description": "Directory for the volume files",
				},
				"pagesPerVolume": map[string]any{
					"type":        "number",
					"description": "Maximum pages per volume",
				},
			},
			"required": []string{"inputPath", "outputDir", "pagesPerVolume"},
		},
		Handler: handleSplitVolumes,
	}
}

func handleSplitVolumes(args map[string]any) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	outputDir, _ := args["outputDir"].(string)
	perVolume, _ := args["pagesPerVolume"].(float64)
	if inputPath == "" || outputDir == "" || perVolume < 1 {
		return ToolResult{}, fmt.Errorf("inputPath, outputDir, and pagesPerVolume are required")
	}
	if info, err := os.Stat(outputDir); err != nil {
		return ToolResult{}, fmt.Errorf("output directory: %w", err)
	} else if !info.IsDir() {
		return ToolResult{}, fmt.Errorf("%s is not a directory", outputDir)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return ToolResult{}, fmt.Errorf("reading document: %w", err)
	}
	volumes, err := bates.SplitVolumes(data, int(perVolume))
	if err != nil {
		return ToolResult{}, err
	}

	for i, vol := range volumes {
		path := filepath.Join(outputDir, fmt.Sprintf("volume_%03d.pdf", i+1))
		if err := os.WriteFile(path, vol, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing volume %d: %w", i+1, err)
		}
	}
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Split %s into %d volumes in %s", inputPath, len(volumes), outputDir),
		}},
	}, nil
}

func documentInfoTool() Tool {
	return Tool{
		Name:        "document_info",
		Description: "Get information about a PDF: version, page count, per-page dimensions and fonts, metadata.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the PDF file",
				},
			},
			"required": []string{"path"},
		},
		Handler: handleDocumentInfo,
	}
}

func handleDocumentInfo(args map[string]any) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}

	doc, err := document.Open(path)
	if err != nil {
		return ToolResult{}, err
	}

	pages := make([]map[string]any, 0, doc.NumPages())
	for n, page := range doc.Pages() {
		entry := map[string]any{
			"page":   n,
			"width":  page.Width(),
			"height": page.Height(),
		}
		if fonts := page.Fonts(); len(fonts) > 0 {
			entry["fonts"] = fonts
		}
		if page.Rotation() != 0 {
			entry["rotate"] = page.Rotation()
		}
		pages = append(pages, entry)
	}

	info := map[string]any{
		"version":  doc.Version(),
		"numPages": doc.NumPages(),
		"metadata": doc.Metadata(),
		"pages":    pages,
	}
	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

func extractTextTool() Tool {
	return Tool{
		Name:        "extract_text",
		Description: "Extract text content from a PDF, for all pages or a selection.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the PDF file",
				},
				"pages": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "number"},
					"description": "Page numbers to extract (1-based). Omit for all pages.",
				},
			},
			"required": []string{"path"},
		},
		Handler: handleExtractText,
	}
}

func handleExtractText(args map[string]any) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}

	doc, err := document.Open(path)
	if err != nil {
		return ToolResult{}, err
	}

	selected := make(map[int]bool)
	if raw, ok := args["pages"].([]any); ok {
		for _, p := range raw {
			if n, ok := p.(float64); ok {
				selected[int(n)] = true
			}
		}
	}

	var out strings.Builder
	for n, page := range doc.Pages() {
		if len(selected) > 0 && !selected[n] {
			continue
		}
		fmt.Fprintf(&out, "--- Page %d ---\n%s\n\n", n, page.Text())
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: out.String()}},
	}, nil
}
