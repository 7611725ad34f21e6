// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// Debugf formats and prints a debug message.
	Debugf(format string, v ...any)
	// Warnf formats and prints a warning message.
	Warnf(format string, v ...any)
	// Errorf formats and prints an error message.
	Errorf(format string, v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// Level is a logging threshold shared by both logger implementations.
type Level int

const (
	// LevelDebug enables every message.
	LevelDebug Level = iota
	// LevelInfo enables info, warn and error messages.
	LevelInfo
	// LevelWarn enables warn and error messages.
	LevelWarn
	// LevelError enables error messages only.
	LevelError
)

// String returns the lowercase level name used in structured output.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// charmLevel maps a Level onto the [log] package levels.
func charmLevel(l Level) log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// CLILogger implements Logger using [log] from charmbracelet.
// It's designed for command-line interface output with human-readable formatting.
//
// [log]: https://github.com/charmbracelet/log
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	l.SetLevel(log.InfoLevel)
	return &CLILogger{logger: l}
}

// SetLevel changes the minimum level that will be written.
func (c *CLILogger) SetLevel(level Level) { c.logger.SetLevel(charmLevel(level)) }

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) {
	c.logger.Print(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debugf prints a message at debug level.
func (c *CLILogger) Debugf(format string, v ...any) { c.logger.Debugf(format, v...) }

// Warnf prints a message at warn level.
func (c *CLILogger) Warnf(format string, v ...any) { c.logger.Warnf(format, v...) }

// Errorf prints a message at error level.
func (c *CLILogger) Errorf(format string, v ...any) { c.logger.Errorf(format, v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger implements Logger for [MCP] server mode.
// It suppresses output by default since MCP communication happens over stdio,
// but can be configured to write structured logs to a separate destination.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
	level  Level
}

// NewMCPLogger creates a new [MCP] logger.
// By default, it's silent (output suppressed) to avoid interfering with [MCP] stdio protocol.
// Set silent=false and provide a writer to enable structured logging to a file or stderr.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		writer: writer,
		silent: silent,
		level:  LevelInfo,
	}
}

// SetLevel changes the minimum level that will be written.
//
// SetLevel is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetLevel(level Level) {
	m.mu.Lock()
	m.level = level
	m.mu.Unlock()
}

// Printf formats and logs a structured info message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Printf is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) Printf(format string, v ...any) { m.write(LevelInfo, fmt.Sprintf(format, v...)) }

// Println logs a structured info message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Println is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) Println(v ...any) { m.write(LevelInfo, fmt.Sprint(v...)) }

// Debugf logs a structured debug message.
func (m *MCPLogger) Debugf(format string, v ...any) { m.write(LevelDebug, fmt.Sprintf(format, v...)) }

// Warnf logs a structured warning message.
func (m *MCPLogger) Warnf(format string, v ...any) { m.write(LevelWarn, fmt.Sprintf(format, v...)) }

// Errorf logs a structured error message.
func (m *MCPLogger) Errorf(format string, v ...any) { m.write(LevelError, fmt.Sprintf(format, v...)) }

// write encodes one JSON line. The JSON format is compatible with [MCP]
// protocol logging requirements.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (m *MCPLogger) write(level Level, msg string) {
	if m.silent {
		return
	}

	data, _ := json.Marshal(map[string]any{
		"level":   level.String(),
		"message": msg,
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if level < m.level {
		return
	}
	fmt.Fprintln(m.writer, string(data))
}

// SetOutput sets the output destination for the MCP logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}

// Nop returns a Logger that discards everything. It is the default for
// components constructed without an explicit logger.
func Nop() Logger { return NewMCPLogger(io.Discard, true) }
