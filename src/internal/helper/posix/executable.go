// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is reported when os.Args carries no usable program name.
const DefaultExecutableName = "mcp-pattern-server"

// GetExecutableName returns the executable name without extension, cross-platform compatible.
// It extracts the base name from os.Args[0] and removes common executable extensions
// (.exe on Windows) to provide a clean name for CLI usage strings.
//
// This ensures consistent behavior across all operating systems:
//   - Linux/macOS: "pattern-server" from "/usr/local/bin/pattern-server"
//   - Windows: "pattern-server" from "C:\bin\pattern-server.exe"
//   - Fallback: Uses [DefaultExecutableName] if os.Args[0] is unavailable
//
// Returns:
//   - string: Clean executable name suitable for CLI usage
func GetExecutableName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return DefaultExecutableName
	}
	return executableName(os.Args[0])
}

// executableName strips directories and a trailing .exe from arg0.
// Foreign separators are handled too, so a Windows path seen on a Unix host
// still yields the bare program name.
func executableName(arg0 string) string {
	name := filepath.Base(arg0)

	if strings.Contains(name, "\\") || (strings.Contains(name, "/") && !strings.Contains(name, string(filepath.Separator))) {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}

	name = strings.TrimSuffix(name, ".exe")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultExecutableName
	}
	return name
}
