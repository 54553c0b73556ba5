// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package supervisor runs Animerec's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("animerec")
	├── DataSupervisor ("data-layer")
	│   └── WarmupService (if WARM_ON_STARTUP)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog into the zerolog stream via logging.NewSlogLogger.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewWarmupService(engine, 0, logging.WithComponent("supervisor")))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, handler.Wait))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
