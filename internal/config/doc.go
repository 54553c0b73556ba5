// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package config provides centralized configuration management for Animerec.

Settings are layered with Koanf v2: struct defaults, then an optional YAML
file, then environment variables. Validation runs once after the merge, so
every consumer receives a complete, checked Config.

# Config File

	server:
	  port: 8501
	data:
	  anime_path: /data/anime.csv
	  ratings_path: /data/rating.csv
	  ratings_url: https://example.org/rating.csv
	  fetch_timeout: 30s
	recommend:
	  default_k: 5
	  min_k: 3
	  max_k: 10
	logging:
	  level: info
	  format: json

The file is located through CONFIG_PATH, then config.yaml / config.yml in
the working directory, then /etc/animerec/.

# Environment Variables

Only explicitly mapped variables are read (see envTransformFunc); unrelated
variables in the process environment never leak into the configuration.
Comma-separated values are accepted for list settings such as CORS_ORIGINS.

# Hot Reload

WatchConfigFile notifies on file changes. The server uses it to apply a new
log level without restarting; data and recommender settings still require a
restart or an explicit reload.
*/
package config
