// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and provides two implementations: CLILogger for
// human-readable command-line output backed by [charmbracelet/log], and MCPLogger
// for structured JSON logging in MCP server environments where stdout carries
// the protocol stream. Both implementations honour a Level threshold and are
// safe for concurrent use.
//
// [charmbracelet/log]: https://github.com/charmbracelet/log
package logger
