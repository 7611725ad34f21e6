// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDispatcher returns a dispatcher over the embedded catalog.
func newTestDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	d, err := newDispatcher(defaultConfig(), "test-version", logger.Nop())
	require.NoError(t, err)
	return d
}

// newTestClient builds the server around d and returns an initialized
// in-process client.
func newTestClient(t *testing.T, d *dispatch.Dispatcher) (*client.Client, *mcp.InitializeResult) {
	t.Helper()

	s, err := NewServerBuilder().
		WithConfig(defaultConfig()).
		WithEmbed(templates.MagicEmbed).
		WithVersion("test-version").
		WithDispatcher(d).
		Build()
	require.NoError(t, err)

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "pattern-test", Version: "1.0.0"}
	result, err := c.Initialize(ctx, init)
	require.NoError(t, err)

	return c, result
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func TestServerBuilder_Build_WithoutDispatcher(t *testing.T) {
	_, err := NewServerBuilder().WithVersion("test-version").Build()
	assert.Error(t, err)
}

func TestServerBuilder_Initialize(t *testing.T) {
	d := newTestDispatcher(t)
	_, result := newTestClient(t, d)

	assert.Equal(t, dispatch.DefaultServerName, result.ServerInfo.Name)
	assert.Equal(t, "test-version", result.ServerInfo.Version)
	assert.Contains(t, result.Instructions, dispatch.ToolSearchPatterns)
	assert.Contains(t, result.Instructions, dispatch.DefaultScheme+"://resource/")
	require.NotNil(t, result.Capabilities.Resources)
	assert.False(t, result.Capabilities.Resources.ListChanged)

	// Initialization alone does not load the catalog
	assert.Equal(t, dispatch.StateUninitialized, d.State())
}

func TestServerBuilder_ListTools(t *testing.T) {
	d := newTestDispatcher(t)
	c, _ := newTestClient(t, d)

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		require.NotNil(t, tool.Annotations.ReadOnlyHint, tool.Name)
		assert.True(t, *tool.Annotations.ReadOnlyHint, tool.Name)
		assert.NotEmpty(t, tool.Annotations.Title, tool.Name)
	}
	assert.ElementsMatch(t, d.ToolNames(), names)
	assert.NotContains(t, names, fallbackToolName)
	assert.Equal(t, dispatch.StateUninitialized, d.State())
}

func TestServerBuilder_ListResources(t *testing.T) {
	d := newTestDispatcher(t)
	c, _ := newTestClient(t, d)
	ctx := context.Background()

	for range 2 {
		result, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
		require.NoError(t, err)
		require.Len(t, result.Resources, 11)

		for _, r := range result.Resources {
			assert.True(t, strings.HasPrefix(r.URI, dispatch.DefaultScheme+"://resource/"), r.URI)
			assert.NotEmpty(t, r.Description, r.Name)
			assert.NotEmpty(t, r.MIMEType, r.Name)
			require.NotNil(t, r.Meta, r.Name)
			assert.NotEmpty(t, r.Meta.AdditionalFields["category"], r.Name)
			assert.NotEmpty(t, r.Meta.AdditionalFields["complexity"], r.Name)
		}
	}
	assert.Equal(t, dispatch.StateReady, d.State())

	templatesResult, err := c.ListResourceTemplates(ctx, mcp.ListResourceTemplatesRequest{})
	require.NoError(t, err)
	require.Len(t, templatesResult.ResourceTemplates, 1)
}

func TestServerBuilder_ReadResource(t *testing.T) {
	d := newTestDispatcher(t)
	c, _ := newTestClient(t, d)

	fsys, err := templates.Catalog()
	require.NoError(t, err)

	tests := []struct {
		name        string
		uri         string
		file        string
		prefix      string
		wantErr     bool
		errContains string
	}{
		{
			name:   "markdown pattern without front matter",
			uri:    "patterns://resource/multi-step-wizard",
			prefix: "# Multi-step Wizard",
		},
		{
			name: "terraform pattern",
			uri:  "patterns://resource/static-site-hosting",
			file: "infrastructure/static-site-hosting.tf",
		},
		{
			name:        "unknown pattern lists available names",
			uri:         "patterns://resource/does-not-exist",
			wantErr:     true,
			errContains: "multi-step-wizard",
		},
		{
			name:    "wrong scheme",
			uri:     "other://resource/multi-step-wizard",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := mcp.ReadResourceRequest{}
			req.Params.URI = test.uri
			result, err := c.ReadResource(context.Background(), req)
			if test.wantErr {
				require.Error(t, err)
				if test.errContains != "" {
					assert.Contains(t, err.Error(), test.errContains)
				}
				return
			}
			require.NoError(t, err)
			require.Len(t, result.Contents, 1)

			text, ok := mcp.AsTextResourceContents(result.Contents[0])
			require.True(t, ok, "expected text contents, got %T", result.Contents[0])

			assert.Equal(t, test.uri, text.URI)
			if test.prefix != "" {
				assert.True(t, strings.HasPrefix(text.Text, test.prefix), text.Text)
				return
			}
			want, err := fs.ReadFile(fsys, test.file)
			require.NoError(t, err)
			assert.Equal(t, string(want), text.Text)
		})
	}
}

func TestServerBuilder_CallTool(t *testing.T) {
	d := newTestDispatcher(t)
	c, _ := newTestClient(t, d)

	tests := []struct {
		name      string
		tool      string
		args      map[string]any
		wantError bool
		contains  []string
	}{
		{
			name:     "search forms",
			tool:     dispatch.ToolSearchPatterns,
			args:     map[string]any{"query": "forms"},
			contains: []string{"multi-step-wizard", "inline-validation", "relevanceScore"},
		},
		{
			name:     "bundle resolves dependencies",
			tool:     dispatch.ToolGetPatternBundle,
			args:     map[string]any{"name": "approval-chain"},
			contains: []string{"approval-chain", "audit-trail", "notification-hub"},
		},
		{
			name:     "validate dependencies",
			tool:     dispatch.ToolValidatePatternDependencies,
			args:     map[string]any{"name": "multi-step-wizard"},
			contains: []string{`"valid":true`},
		},
		{
			name:      "unknown pattern lists available names",
			tool:      dispatch.ToolGetPattern,
			args:      map[string]any{"name": "does-not-exist"},
			wantError: true,
			contains:  []string{"availableResources", "multi-step-wizard"},
		},
		{
			name:      "unknown tool",
			tool:      "no_such_tool",
			args:      map[string]any{"query": "forms"},
			wantError: true,
			contains:  []string{"no_such_tool", "notfound", "availableTools", dispatch.ToolSearchPatterns},
		},
		{
			name:      "hidden fallback tool called directly",
			tool:      fallbackToolName,
			wantError: true,
			contains:  []string{fallbackToolName, "availableTools"},
		},
		{
			name:      "missing required argument",
			tool:      dispatch.ToolSearchPatterns,
			args:      map[string]any{},
			wantError: true,
			contains:  []string{"query"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text, isError := callTool(t, c, test.tool, test.args)
			assert.Equal(t, test.wantError, isError, text)
			for _, want := range test.contains {
				assert.Contains(t, strings.ReplaceAll(text, " ", ""), want)
			}
		})
	}
}

func TestResourceLister_RegistersOnce(t *testing.T) {
	d := newTestDispatcher(t)
	s := server.NewMCPServer("test", "test-version", server.WithResourceCapabilities(false, false))
	lister := &resourceLister{dispatcher: d, server: s, log: logger.Nop()}

	lister.register(context.Background())
	require.True(t, lister.done)
	assert.Equal(t, dispatch.StateReady, d.State())

	// A second call must not list again.
	before := d.Engine().CacheStats()
	lister.register(context.Background())
	assert.Equal(t, before, d.Engine().CacheStats())
	assert.True(t, lister.done)
}

func TestRouteUnregisteredTool(t *testing.T) {
	s := server.NewMCPServer("test", "test-version")
	s.AddTool(mcp.NewTool(dispatch.ToolSearchPatterns), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	tests := []struct {
		name      string
		tool      string
		meta      *mcp.Meta
		wantName  string
		requested string
	}{
		{name: "registered tool untouched", tool: dispatch.ToolSearchPatterns, wantName: dispatch.ToolSearchPatterns},
		{name: "unknown tool", tool: "no_such_tool", wantName: fallbackToolName, requested: "no_such_tool"},
		{
			name:      "client meta is kept",
			tool:      "no_such_tool",
			meta:      &mcp.Meta{ProgressToken: "p1"},
			wantName:  fallbackToolName,
			requested: "no_such_tool",
		},
		{name: "fallback called directly", tool: fallbackToolName, wantName: fallbackToolName, requested: fallbackToolName},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Name = test.tool
			req.Params.Meta = test.meta

			routeUnregisteredTool(s, &req)
			assert.Equal(t, test.wantName, req.Params.Name)
			if test.requested == "" {
				assert.Nil(t, req.Params.Meta)
				return
			}
			require.NotNil(t, req.Params.Meta)
			assert.Equal(t, test.requested, req.Params.Meta.AdditionalFields[requestedToolField])
			if test.meta != nil {
				assert.Equal(t, "p1", req.Params.Meta.ProgressToken)
			}
		})
	}
}
