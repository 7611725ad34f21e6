// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/template"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/server"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// cliHelpData holds the data used to populate the CLI help template.
//
// Fields:
//   - ExeName: The name of the executable binary for command examples
//   - InstructionsFlagName: The formatted instructions flag name (e.g., "--instructions")
//   - ConfigFlagName: The formatted config flag name (e.g., "--config")
//   - HelpFlagName: The formatted help flag name (e.g., "--help")
type cliHelpData struct {
	// ExeName: Executable name for command examples
	ExeName string
	// InstructionsFlagName: Dynamic instructions flag name
	InstructionsFlagName string
	// ConfigFlagName: Dynamic config flag name
	ConfigFlagName string
	// HelpFlagName: Dynamic help flag name
	HelpFlagName string
}

// CLIFramework integrates Cobra CLI with MCP server capabilities.
//
// Running the root command without arguments serves the pattern catalog over
// stdio. The same dispatcher backs the local inspection subcommands, so
// list, search, show and validate see exactly what an MCP client would.
//
// Fields:
//   - configFile: Path to the configuration file, overridable with --config
//   - config: Loaded profile; loaded lazily when nil
//   - embed: Embedded filesystem with the help and instructions templates
//   - version: Server version string
//   - instructions: Pre-rendered instructions; rendered on demand when empty
//   - dispatcher: Dispatcher shared by the server and the subcommands; built
//     lazily from config when nil
//   - logger: Diagnostics logger; built from config when nil
type CLIFramework struct {
	configFile   string
	config       *Config
	embed        templates.EmbedFS
	version      string
	instructions string
	dispatcher   *dispatch.Dispatcher
	logger       logger.Logger
}

// NewCLIFramework creates a new CLI framework instance with MCP server integration.
//
// Configuration loading is deferred until a command runs so that --config
// and MCP_PATTERN_CONFIG_FILE can still take effect.
//
// Parameters:
//   - configFile: Path to the configuration file; empty uses the environment
//     variable or the defaults
//   - deps: Server dependencies; Config, Dispatcher and Logger may be left
//     nil and are then built from the loaded configuration
//
// Returns:
//   - *CLIFramework: Initialized CLI framework ready for building commands.
func NewCLIFramework(configFile string, deps ServerDependencies) *CLIFramework {
	return &CLIFramework{
		configFile:   configFile,
		config:       deps.Config,
		embed:        deps.Embed,
		version:      deps.Version,
		instructions: deps.Instructions,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// BuildRootCommand creates the root Cobra command with integrated MCP server capabilities.
//
// Command behavior:
//   - With --instructions: Prints the instructions sent to MCP clients and exits
//   - Without arguments: Starts the MCP server on stdio
//   - list, search, show, validate: Inspect the catalog locally
//
// Returns:
//   - *cobra.Command: Root command with MCP server integration.
//
// It panics if the embedded filesystem is missing or the help template is
// malformed; both are build-time defects.
func (cf *CLIFramework) BuildRootCommand() *cobra.Command {
	// Use cross-platform executable name extraction for consistent UX
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:     exeName,
		Short:   "Implementation pattern catalog served over the Model Context Protocol",
		Version: cf.version,
	}

	// Cobra normally adds this during Execute; the help text needs it earlier
	rootCmd.Flags().BoolP("help", "h", false, "help for "+exeName)

	rootCmd.PersistentFlags().Bool("instructions", false, "print the instructions sent to MCP clients")
	rootCmd.PersistentFlags().StringVar(&cf.configFile, "config", cf.configFile, "path to the server configuration file (JSON or YAML)")

	instructionsFlagName, configFlagName, helpFlagName := extractFlagNames(rootCmd)

	if cf.embed == nil {
		panic("CLIFramework embed filesystem not initialized")
	}

	longDesc, examples, err := cf.loadAndExecuteCLIHelpTemplate(exeName, instructionsFlagName, configFlagName, helpFlagName)
	if err != nil {
		panic(fmt.Sprintf("failed to process CLI help template: %v", err))
	}

	rootCmd.Long = longDesc
	rootCmd.Example = examples
	rootCmd.RunE = cf.createRootCommandRunE(exeName)

	rootCmd.AddCommand(
		cf.newListCommand(),
		cf.newSearchCommand(),
		cf.newShowCommand(),
		cf.newValidateCommand(),
	)

	return rootCmd
}

// loadAndExecuteCLIHelpTemplate loads the CLI help template from embedded filesystem,
// executes it with dynamic data, and parses the result to extract Long description and Examples.
//
// Parameters:
//   - exeName: The name of the executable binary for command examples
//   - instructionsFlagName: The formatted instructions flag name (e.g., "--instructions")
//   - configFlagName: The formatted config flag name (e.g., "--config")
//   - helpFlagName: The formatted help flag name (e.g., "--help")
//
// Returns:
//   - longDesc: The processed Long description text for the CLI command
//   - examples: The processed Examples section text for the CLI command
//   - err: Template loading, parsing, execution, or result parsing errors
func (cf *CLIFramework) loadAndExecuteCLIHelpTemplate(exeName, instructionsFlagName, configFlagName, helpFlagName string) (longDesc, examples string, err error) {
	templateBytes, err := cf.embed.ReadFile("cli_help.md")
	if err != nil {
		return "", "", fmt.Errorf("failed to load CLI help template: %w", err)
	}

	data := cliHelpData{
		ExeName:              exeName,
		InstructionsFlagName: instructionsFlagName,
		ConfigFlagName:       configFlagName,
		HelpFlagName:         helpFlagName,
	}

	tmpl, err := template.New("cli_help").Parse(string(templateBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse CLI help template: %w", err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", "", fmt.Errorf("failed to execute CLI help template: %w", err)
	}

	return cf.parseTemplateResult(result.String())
}

// parseTemplateResult splits the rendered help template at the "## Examples"
// line. Text before it becomes the Long description and text after it the
// Examples section, both trimmed. Windows line endings are handled.
//
// Parameters:
//   - templateResult: The rendered template output as a string
//
// Returns:
//   - longDesc: The Long description text (everything before "## Examples")
//   - examples: The Examples section text (everything after "## Examples")
//   - err: Parsing errors if the template format is invalid
func (cf *CLIFramework) parseTemplateResult(templateResult string) (longDesc, examples string, err error) {
	const examplesMarker = "## Examples"
	markerIndex := strings.Index(templateResult, examplesMarker)
	if markerIndex == -1 {
		return "", "", fmt.Errorf("CLI help template has invalid format - missing '## Examples' section")
	}

	// Start of the marker line
	lineStart := strings.LastIndex(templateResult[:markerIndex], "\n")
	if lineStart == -1 {
		lineStart = 0
	} else {
		lineStart++
	}

	// End of the marker line
	lineEnd := strings.Index(templateResult[markerIndex:], "\n")
	if lineEnd == -1 {
		lineEnd = len(templateResult)
	} else {
		lineEnd += markerIndex
	}

	longDesc = strings.TrimSpace(templateResult[:lineStart])
	examples = strings.TrimSpace(templateResult[lineEnd:])

	return longDesc, examples, nil
}

// extractFlagNames extracts formatted flag names from the root command.
// Missing flags fall back to their default names.
//
// Returns:
//   - instructionsFlagName: Formatted instructions flag (e.g., "--instructions")
//   - configFlagName: Formatted config flag (e.g., "--config")
//   - helpFlagName: Formatted help flag (e.g., "--help")
func extractFlagNames(rootCmd *cobra.Command) (instructionsFlagName, configFlagName, helpFlagName string) {
	instructionsFlag := rootCmd.PersistentFlags().Lookup("instructions")
	instructionsFlagName = "--instructions"
	if instructionsFlag != nil {
		instructionsFlagName = "--" + instructionsFlag.Name
	}

	configFlag := rootCmd.PersistentFlags().Lookup("config")
	configFlagName = "--config"
	if configFlag != nil {
		configFlagName = "--" + configFlag.Name
	}

	helpFlag := rootCmd.Flags().Lookup("help")
	helpFlagName = "--help"
	if helpFlag != nil {
		helpFlagName = "--" + helpFlag.Name
	}

	return instructionsFlagName, configFlagName, helpFlagName
}

// setup loads the configuration and builds the logger and dispatcher that
// have not been injected. Diagnostics go to the command's error stream.
func (cf *CLIFramework) setup(cmd *cobra.Command) (*dispatch.Dispatcher, error) {
	if cf.dispatcher != nil {
		return cf.dispatcher, nil
	}

	if cf.config == nil {
		config, err := loadConfig(cf.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cf.config = config
	}

	if cf.logger == nil {
		cf.logger = newLogger(cf.config, cmd.ErrOrStderr())
	}

	d, err := newDispatcher(cf.config, cf.version, cf.logger)
	if err != nil {
		return nil, err
	}
	cf.dispatcher = d
	return d, nil
}

// serverName returns the configured server name.
func (cf *CLIFramework) serverName() string {
	if cf.config == nil || cf.config.Server.Name == "" {
		return dispatch.DefaultServerName
	}
	return cf.config.Server.Name
}

// startMCPServer serves MCP over the command's stdin and stdout until the
// input ends or SIGINT or SIGTERM arrives.
//
// Returns:
//   - nil: When the server shuts down because of a signal
//   - error: Configuration loading, server building or transport errors
func (cf *CLIFramework) startMCPServer(cmd *cobra.Command) error {
	d, err := cf.setup(cmd)
	if err != nil {
		return err
	}
	l := cf.logger

	mcpServer, err := NewServerBuilder().
		WithConfig(cf.config).
		WithEmbed(cf.embed).
		WithVersion(cf.version).
		WithDispatcher(d).
		WithInstructions(cf.instructions).
		WithLogger(l).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	stdioServer := server.NewStdioServer(mcpServer)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			// Clear the line (including any ^C) before the shutdown message
			l.Printf("\rReceived signal %s, initiating graceful shutdown...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	l.Printf("%s MCP server started (scheme %s).", cf.serverName(), d.Scheme())

	if err = stdioServer.Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printInstructions writes the instructions sent to MCP clients.
func (cf *CLIFramework) printInstructions(cmd *cobra.Command) error {
	if cf.instructions == "" {
		d, err := cf.setup(cmd)
		if err != nil {
			return err
		}
		instructions, err := loadInstructions(cf.embed, cf.serverName(), d)
		if err != nil {
			return err
		}
		cf.instructions = instructions
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), cf.instructions)
	return err
}

// createRootCommandRunE creates the RunE function for the root command.
//
// The --instructions flag is read when the command runs, so it takes effect
// however the flags were parsed.
func (cf *CLIFramework) createRootCommandRunE(exeName string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		showInstructions, err := cmd.Flags().GetBool("instructions")
		if err != nil {
			return err
		}
		if showInstructions {
			return cf.printInstructions(cmd)
		}
		if len(args) == 0 {
			return cf.startMCPServer(cmd)
		}
		return fmt.Errorf("unexpected arguments: %s for %q", strings.Join(args, " "), exeName)
	}
}

func (cf *CLIFramework) newListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List every pattern in the catalog",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := cf.setup(cmd)
			if err != nil {
				return err
			}
			resources, err := d.ListResources(cmd.Context())
			if err != nil {
				return err
			}

			var rows [][]string
			for _, r := range resources {
				if category != "" && !strings.EqualFold(r.Annotations.Category, category) {
					continue
				}
				rows = append(rows, []string{
					r.Name,
					r.Annotations.Category,
					r.Annotations.Complexity,
					strings.Join(r.Annotations.Tags, ", "),
				})
			}
			if len(rows) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no patterns found")
				return err
			}
			return renderTable(cmd.OutOrStdout(), rows, "Name", "Category", "Complexity", "Tags")
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list patterns of this category")
	return cmd
}

func (cf *CLIFramework) newSearchCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:          "search <query>",
		Short:        "Search patterns by name, title, description, tags and category",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := cf.setup(cmd)
			if err != nil {
				return err
			}
			if err := d.EnsureReady(cmd.Context()); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := d.Engine().Search(query)
			if limit <= 0 && cf.config != nil {
				limit = cf.config.Search.DefaultLimit
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			if len(results) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no patterns match %q\n", query)
				return err
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				var category, title string
				if r.Metadata != nil {
					category, title = r.Metadata.Category, r.Metadata.Title
				}
				rows = append(rows, []string{r.Name, strconv.Itoa(r.RelevanceScore), category, title})
			}
			return renderTable(cmd.OutOrStdout(), rows, "Name", "Score", "Category", "Title")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (default from configuration)")
	return cmd
}

func (cf *CLIFramework) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "show <name>",
		Short:        "Print a pattern exactly as stored",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := cf.setup(cmd)
			if err != nil {
				return err
			}
			contents, err := d.ReadResource(cmd.Context(), d.Composer().URI(args[0]))
			if err != nil {
				return err
			}
			for _, c := range contents {
				if _, err := io.WriteString(cmd.OutOrStdout(), c.Text); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (cf *CLIFramework) newValidateCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:          "validate",
		Short:        "Check the declared dependencies of every manifest entry",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := cf.setup(cmd)
			if err != nil {
				return err
			}
			if err := d.EnsureReady(cmd.Context()); err != nil {
				return err
			}

			cat := d.Catalog()
			for _, w := range cat.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}

			var rows [][]string
			invalid := 0
			for _, entry := range cat.Entries() {
				report := cat.Validate(entry.Name)
				status := "ok"
				if !report.Valid {
					status = "missing"
					invalid++
				}
				rows = append(rows, []string{
					report.Name,
					status,
					strings.Join(report.Declared, ", "),
					strings.Join(report.Missing, ", "),
				})
			}
			if len(rows) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "manifest has no entries")
				return err
			}
			if err := renderTable(cmd.OutOrStdout(), rows, "Name", "Status", "Declared", "Missing"); err != nil {
				return err
			}
			if strict && invalid > 0 {
				return fmt.Errorf("%d of %d patterns have missing dependencies", invalid, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any dependency is missing")
	return cmd
}

// renderTable writes rows as a markdown table.
func renderTable(w io.Writer, rows [][]string, header ...string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
