// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

/*
Package services provides suture.Service wrappers for soundhub-friends
components.

Each wrapper implements suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and translates a component's own lifecycle (ListenAndServe, Run/Close, a
ticker loop) into a Serve that returns when ctx is canceled.

# Available Services

  - HTTPServerService: *http.Server with graceful shutdown.
  - SnapshotWarmerService: periodic refresh of the cached preference snapshot.
  - ResponderService: the event-bus recommendation responder.

# Usage Example

	tree.AddDataService(services.NewSnapshotWarmerService(cached, recorder, time.Minute, logger))
	tree.AddMessagingService(services.NewResponderService(responder, 10*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
