// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package services wraps Animerec's long-running components as suture
// services: the HTTP server (HTTPServerService) and the startup model
// warm-up (WarmupService).
package services
