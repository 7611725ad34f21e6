// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dispatch is the transport independent request entry point of the
// pattern server.
//
// A [Dispatcher] owns the catalog lifecycle. The catalog is populated lazily
// by whichever request arrives first; concurrent first requests share the
// same in-flight population and the catalog is never loaded twice.
//
// Resources are addressed as "<scheme>://resource/<name>", where the scheme
// defaults to "patterns":
//
//	d, err := dispatch.New(cat, dispatch.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	contents, err := d.ReadResource(ctx, "patterns://resource/wizard")
//
// Tools are served from a fixed table. The table and the command map are
// checked against each other in [New], and tool arguments are validated
// against each tool's JSON Schema before the handler runs. [Dispatcher.CallTool]
// never returns an error; failures are reported as results with IsError set.
package dispatch
