// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
)

// instructionsTemplate is the embedded file rendered by loadInstructions.
const instructionsTemplate = "instructions.md"

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	ServerName string
	Scheme     string
	Tools      []toolInfo
	ToolRoles  map[string]string // Maps tool roles to tool names for template use
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the instructions sent to MCP clients during
// initialization from the dispatcher's tool table.
//
// Parameters:
//   - embed: Filesystem holding instructions.md
//   - serverName: Server name shown in the heading
//   - d: Dispatcher whose scheme and tools are described
//
// Returns:
//   - string: The rendered instruction text
//   - error: If the embedded file cannot be read or template parsing fails
func loadInstructions(embed templates.EmbedFS, serverName string, d *dispatch.Dispatcher) (string, error) {
	templateBytes, err := embed.ReadFile(instructionsTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	defs := d.Definitions()
	data := instructionData{
		ServerName: serverName,
		Scheme:     d.Scheme(),
		Tools:      make([]toolInfo, 0, len(defs)),
		ToolRoles:  make(map[string]string, len(defs)),
	}
	for _, def := range defs {
		data.Tools = append(data.Tools, toolInfo{
			Name:        def.Name,
			Description: def.Description,
		})
		if def.Role != "" {
			data.ToolRoles[def.Role] = def.Name
		}
	}

	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}
