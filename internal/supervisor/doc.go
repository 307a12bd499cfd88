// Soundhub Friends - Genre-based friend recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundhub-friends

// Package supervisor runs the long-lived parts of the server under a
// suture v4 supervisor tree, restarting failed services with backoff.
// Supervisor events are logged through sutureslog into zerolog.
//
// Service wrappers live in the services subpackage.
package supervisor
