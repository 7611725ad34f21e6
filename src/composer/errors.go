// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package composer

import (
	"errors"
	"strings"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/catalog"
)

// Remediation hints attached to every error envelope.
const (
	SuggestionNotFound   = "Use one of the available names, or call search_patterns to find patterns by keyword."
	SuggestionInvalidURI = "Resource URIs have the form <scheme>://resource/<name>."
	SuggestionArguments  = "Check the arguments against the tool's input schema from tools/list."
	SuggestionDefault    = "Retry the request; if it keeps failing, call get_server_status to inspect load warnings."
)

// errorEnvelope never carries stack traces or file paths, only the message,
// the operation and remediation data. AvailableResources is set for every
// "not found" error, as [] when the catalog is empty.
type errorEnvelope struct {
	Error              string    `json:"error"`
	Operation          string    `json:"operation,omitempty"`
	Suggestion         string    `json:"suggestion"`
	AvailableResources *[]string `json:"availableResources,omitempty"`
	AvailableTools     []string  `json:"availableTools,omitempty"`
}

// ArgumentError marks a tool call rejected before dispatch.
type ArgumentError struct {
	Tool    string
	Details []string
}

func (e *ArgumentError) Error() string {
	return "invalid arguments for " + e.Tool + ": " + strings.Join(e.Details, "; ")
}

// ForError formats err for operation. The envelope always has a suggestion.
// When the message contains "not found" every currently available resource
// name is listed, and an unknown tool also lists the valid tool names.
//
// ForError cannot fail; if encoding is impossible a minimal envelope is
// returned.
func (c *Composer) ForError(err error, operation string) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	env := errorEnvelope{
		Error:      msg,
		Operation:  operation,
		Suggestion: SuggestionDefault,
	}

	var (
		notFound   *catalog.NotFoundError
		invalidURI *catalog.InvalidURIError
		argErr     *ArgumentError
	)
	switch {
	case strings.Contains(msg, "not found"):
		env.Suggestion = SuggestionNotFound
		names := c.cat.Names()
		if names == nil {
			names = []string{}
		}
		env.AvailableResources = &names
		if errors.As(err, &notFound) && notFound.Kind == catalog.KindTool {
			env.AvailableTools = notFound.Available
		}
	case errors.As(err, &invalidURI):
		env.Suggestion = SuggestionInvalidURI
	case errors.As(err, &argErr):
		env.Suggestion = SuggestionArguments
	}

	text, encErr := encode(env)
	if encErr != nil {
		return `{"error":"internal error","suggestion":"` + SuggestionDefault + `"}`
	}
	return text
}
