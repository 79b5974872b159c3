// Command lexpdf-mcp is an MCP (Model Context Protocol) server that exposes
// document compliance validation and Bates stamping to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/lexpdf/cmd/lexpdf-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "lexpdf": {
//	      "command": "lexpdf-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - validate_document: Run compliance checks against a PDF
//   - compliance_report: Render a PDF compliance certificate
//   - bates_stamp: Apply sequential Bates numbers to every page
//   - split_volumes: Split a PDF into fixed-size volumes
//   - document_info: Get detailed PDF information
//   - extract_text: Extract text content from PDFs
//
// # Available Resources
//
//   - doc://report?path=... : Plain-text compliance report
//   - doc://text?path=... : Extract text content
//   - doc://pages?path=... : Get page geometry
package main

import (
	"fmt"
	"os"

	"github.com/lvillar/lexpdf/mcp"
)

func main() {
	server := mcp.NewServer()

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "lexpdf-mcp: %v\n", err)
		os.Exit(1)
	}
}
