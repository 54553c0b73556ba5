// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package main is the entry point for the Animerec server.
//
// Animerec recommends anime titles that users rated similarly to a chosen
// title (item-based collaborative filtering over the anime.csv and
// rating.csv tables). It serves a small HTML page at / and a JSON API under
// /api/v1.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf)
//  2. Logging: zerolog, level and format from configuration
//  3. Build report store: badger, in memory unless STORAGE_PATH is set
//  4. Dataset loader: RATINGS_URL first, RATINGS_PATH as the single fallback
//  5. Recommendation engine: builds the model once, lazily or at warm-up
//  6. Supervisor tree: model warm-up and the HTTP server
//
// # Example Usage
//
//	export ANIME_PATH=/data/anime.csv
//	export RATINGS_PATH=/data/rating.csv
//	export RATINGS_URL=https://example.com/rating.csv
//	./animerec
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the HTTP server gracefully, wait for background
// reloads, and close the report store.
package main
