// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package composer formats catalog data into the JSON envelopes returned by
// tools and resource reads.
//
// Every method is a pure function of the catalog it was created with. JSON is
// encoded through pooled buffers with HTML escaping disabled, so payloads
// containing markup come back unmodified.
//
// Error envelopes follow one convention: they always carry a suggestion, and
// when the message contains "not found" they list every available resource
// name:
//
//	{
//	  "error": "resource \"wizzard\" not found",
//	  "operation": "get_pattern",
//	  "suggestion": "Use one of the available names, ...",
//	  "availableResources": ["wizard", "stepper"]
//	}
package composer
