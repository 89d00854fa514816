// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package supervisor runs the long-lived parts of the server under suture v4.

The tree isolates failures per layer:

	cropwise
	├── model-layer
	│   └── BundleLoaderService
	├── history-layer (when history is enabled)
	│   ├── HistoryRecorderService
	│   └── HistoryGCService
	└── api-layer
	    └── HTTPServerService

Suture restarts a crashed service with backoff. Supervisor events are
logged through sutureslog, which takes a *slog.Logger; the server passes
logging.NewSlogLogger("supervisor") so events land in the zerolog output.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewBundleLoaderService(handle, loader, 30*time.Second, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
