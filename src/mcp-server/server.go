// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/metrics"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the pattern server.
//
// Returns:
//   - string: The current server version (e.g., "0.1.0")
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// Run starts the pattern server command line.
//
// Without arguments the root command serves MCP over stdio until it receives
// SIGINT or SIGTERM. The list, search, show and validate subcommands inspect
// the catalog locally.
//
// Parameters:
//   - version: Version string reported to clients and by --version
//   - configFile: Initial configuration file path; --config overrides it and
//     MCP_PATTERN_CONFIG_FILE is used when both are empty
//
// Returns:
//   - error: Command error, nil on a clean or signal-initiated shutdown
func Run(version, configFile string) error {
	appVersion = version

	framework := NewCLIFramework(configFile, ServerDependencies{
		Embed:   templates.MagicEmbed,
		Version: version,
	})
	return framework.BuildRootCommand().Execute()
}

// newLogger creates the diagnostics logger described by config, writing to w.
func newLogger(config *Config, w io.Writer) logger.Logger {
	level, _ := logger.ParseLevel(config.Logging.Level)

	switch config.Logging.Format {
	case LogFormatSilent:
		return logger.Nop()
	case LogFormatJSON:
		l := logger.NewMCPLogger(w, false)
		l.SetLevel(level)
		return l
	default:
		l := logger.NewCLILogger()
		l.SetOutput(w)
		l.SetLevel(level)
		return l
	}
}

// catalogFS returns the filesystem the catalog is loaded from: the configured
// directory, or the embedded catalog.
func catalogFS(config *Config) (fs.FS, error) {
	if dir := config.Catalog.Directory; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("catalog directory %q is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return templates.Catalog()
}

// newDispatcher wires the catalog, metrics and dispatcher for one server
// profile. The catalog is not populated here.
//
// Parameters:
//   - config: Server profile
//   - version: Version reported by get_server_status
//   - log: Logger shared by the catalog and the dispatcher
//
// Returns:
//   - *dispatch.Dispatcher: Dispatcher over an unpopulated catalog
//   - error: Error if the catalog source or the profile is invalid
func newDispatcher(config *Config, version string, log logger.Logger) (*dispatch.Dispatcher, error) {
	fsys, err := catalogFS(config)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	cat, err := catalog.Open(catalog.Source{
		FS:           fsys,
		Groups:       config.Catalog.Groups,
		ManifestPath: config.Catalog.Manifest,
	}, catalog.WithLogger(log), catalog.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	d, err := dispatch.New(cat,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(m),
		dispatch.WithScheme(config.Server.Scheme),
		dispatch.WithDefaultLimit(config.Search.DefaultLimit),
		dispatch.WithSearchCacheSize(config.Search.CacheSize),
		dispatch.WithServerInfo(config.Server.Name, version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}
	return d, nil
}
