// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived parts of cinematch under a suture v4
supervisor tree.

	cinematch (root)
	├── data-layer      store.RunStore value log GC
	├── pipeline-layer  services.EvaluationService
	└── api-layer       services.HTTPServerService

Each layer is a child supervisor, so a crashing service is restarted with
backoff without disturbing the other layers. Supervisor events are logged
through sutureslog, whose slog output is routed into zerolog by
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(runs)
	tree.AddPipelineService(evaluationService)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx) // blocks until ctx is canceled
*/
package supervisor
