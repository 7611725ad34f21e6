// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"sync"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerDependencies holds all dependencies needed to build the [MCP] server.
// It serves as a dependency injection container for server components.
//
// Fields:
//   - Config: Server profile (name, scheme, catalog source, search, logging)
//   - Embed: Embedded filesystem with the instruction and help templates
//   - Version: Server version reported during initialization
//   - Instructions: Rendered instructions sent to clients; rendered from
//     Embed when empty
//   - Dispatcher: Protocol dispatcher over the pattern catalog
//   - Logger: Diagnostics logger; defaults to a silent logger
//
// This struct is used internally by ServerBuilder and CLIFramework.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerDependencies struct {
	Config       *Config
	Embed        templates.EmbedFS
	Version      string
	Instructions string
	Dispatcher   *dispatch.Dispatcher
	Logger       logger.Logger
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("0.1.0").
//	    WithDispatcher(d).
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server profile. A nil config uses the defaults.
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem the instructions template is read from.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version string reported to clients.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithDispatcher sets the dispatcher every request is routed to.
func (b *ServerBuilder) WithDispatcher(d *dispatch.Dispatcher) *ServerBuilder {
	b.deps.Dispatcher = d
	return b
}

// WithInstructions sets pre-rendered server instructions.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithLogger sets the diagnostics logger.
func (b *ServerBuilder) WithLogger(l logger.Logger) *ServerBuilder {
	b.deps.Logger = l
	return b
}

// Build creates the [MCP] server with all configured dependencies.
//
// Every tool of the dispatcher table is registered with its JSON Schema.
// Calls to any other tool name reach the dispatcher through a hidden
// fallback tool, so they fail with an error result rather than a protocol
// error.
// Pattern reads go through a single resource template, and the concrete
// resources are registered the first time a client lists them, so the
// catalog is not populated until a request needs it.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if no dispatcher was provided or the instructions cannot be rendered
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	d := b.deps.Dispatcher
	if d == nil {
		return nil, errors.New("server builder requires a dispatcher")
	}

	config := b.deps.Config
	if config == nil {
		config = defaultConfig()
	}

	log := b.deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	instructions := b.deps.Instructions
	if instructions == "" && b.deps.Embed != nil {
		rendered, err := loadInstructions(b.deps.Embed, config.Server.Name, d)
		if err != nil {
			return nil, err
		}
		instructions = rendered
	}

	var s *server.MCPServer

	lister := &resourceLister{dispatcher: d, log: log}
	hooks := &server.Hooks{}
	hooks.AddBeforeListResources(func(ctx context.Context, _ any, _ *mcp.ListResourcesRequest) {
		lister.register(ctx)
	})
	hooks.AddBeforeCallTool(func(_ context.Context, _ any, request *mcp.CallToolRequest) {
		routeUnregisteredTool(s, request)
	})

	s = server.NewMCPServer(
		config.Server.Name,
		b.deps.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithHooks(hooks),
		server.WithToolFilter(hideFallbackTool),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	lister.server = s

	for _, def := range d.Definitions() {
		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, def.InputSchema)
		tool.Annotations = mcp.ToolAnnotation{
			Title:           def.Title,
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}
		s.AddTool(tool, toolHandler(d, def.Name))
	}
	s.AddTool(
		mcp.NewTool(fallbackToolName, mcp.WithDescription("Answers calls to tools that do not exist")),
		fallbackToolHandler(d),
	)

	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			d.Scheme()+"://resource/{name}",
			"Pattern",
			mcp.WithTemplateDescription("A pattern from the catalog, returned exactly as stored"),
		),
		resourceHandler(d),
	)

	return s, nil
}

// toolHandler adapts one dispatcher tool to mcp-go. Tool failures are
// reported in the result, never as a protocol error.
func toolHandler(d *dispatch.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(d.CallTool(ctx, name, request.GetArguments())), nil
	}
}

func toolResult(result *dispatch.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Text())
	}
	return mcp.NewToolResultText(result.Text())
}

// mcp-go rejects calls to unregistered tools with a JSON-RPC error before any
// handler runs. Such calls are renamed to the hidden fallback tool instead,
// with the requested name kept in _meta, so the dispatcher answers them with
// an error result like any other failed call.
const (
	fallbackToolName   = "_unregistered_tool"
	requestedToolField = "requestedTool"
)

// routeUnregisteredTool renames a call to an unknown tool, or a direct call
// to the fallback itself, to the fallback tool.
func routeUnregisteredTool(s *server.MCPServer, request *mcp.CallToolRequest) {
	name := request.Params.Name
	if name != fallbackToolName && s.GetTool(name) != nil {
		return
	}

	if request.Params.Meta == nil {
		request.Params.Meta = &mcp.Meta{}
	}
	if request.Params.Meta.AdditionalFields == nil {
		request.Params.Meta.AdditionalFields = make(map[string]any)
	}
	request.Params.Meta.AdditionalFields[requestedToolField] = name
	request.Params.Name = fallbackToolName
}

// fallbackToolHandler passes the originally requested name to the
// dispatcher, which reports it as not found.
func fallbackToolHandler(d *dispatch.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := fallbackToolName
		if meta := request.Params.Meta; meta != nil {
			if requested, ok := meta.AdditionalFields[requestedToolField].(string); ok {
				name = requested
			}
		}
		return toolResult(d.CallTool(ctx, name, request.GetArguments())), nil
	}
}

// hideFallbackTool removes the fallback tool from tools/list.
func hideFallbackTool(_ context.Context, tools []mcp.Tool) []mcp.Tool {
	out := tools[:0]
	for _, tool := range tools {
		if tool.Name != fallbackToolName {
			out = append(out, tool)
		}
	}
	return out
}

// resourceHandler reads a pattern through the dispatcher. Failures surface
// as JSON-RPC errors.
func resourceHandler(d *dispatch.Dispatcher) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		contents, err := d.ReadResource(ctx, request.Params.URI)
		if err != nil {
			return nil, err
		}
		out := make([]mcp.ResourceContents, 0, len(contents))
		for _, c := range contents {
			out = append(out, mcp.TextResourceContents{
				URI:      c.URI,
				MIMEType: c.MIMEType,
				Text:     c.Text,
			})
		}
		return out, nil
	}
}

// resourceLister registers the loaded resources with the server once.
// A failed attempt is retried on the next listing.
type resourceLister struct {
	mu         sync.Mutex
	done       bool
	dispatcher *dispatch.Dispatcher
	server     *server.MCPServer
	log        logger.Logger
}

func (l *resourceLister) register(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}

	descriptors, err := l.dispatcher.ListResources(ctx)
	if err != nil {
		l.log.Warnf("failed to list resources: %v", err)
		return
	}

	read := resourceHandler(l.dispatcher)
	resources := make([]server.ServerResource, 0, len(descriptors))
	for _, desc := range descriptors {
		resource := mcp.NewResource(desc.URI, desc.Name,
			mcp.WithResourceDescription(desc.Description),
			mcp.WithMIMEType(desc.MIMEType),
		)
		resource.Meta = mcp.NewMetaFromMap(map[string]any{
			"category":   desc.Annotations.Category,
			"complexity": desc.Annotations.Complexity,
			"tags":       desc.Annotations.Tags,
		})
		resources = append(resources, server.ServerResource{
			Resource: resource,
			Handler:  server.ResourceHandlerFunc(read),
		})
	}
	l.server.AddResources(resources...)
	l.done = true
	l.log.Debugf("registered %d resources", len(resources))
}
