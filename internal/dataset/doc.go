// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package dataset reads the anime metadata and user ratings tables that feed
the recommender.

Two CSV tables are consumed:

	anime.csv   anime_id,name,genre,type,episodes,rating,members
	rating.csv  user_id,anime_id,rating

Only anime_id and name are used from the anime table. The ratings table must
carry the columns user_id, anime_id and rating in any order; extra columns
are ignored. A header missing a required column fails with ErrSchemaMismatch.
Individual malformed rows are dropped and counted in ReadStats.

# Sources

The ratings table may come from a remote URL or a local file. Loader tries
the remote URL once (when configured) and falls back once to the local file:

	loader := dataset.NewLoader(dataset.LoaderConfig{
	    AnimePath:   "anime.csv",
	    RatingsPath: "rating.csv",
	    RatingsURL:  "https://example.org/rating.csv",
	}, dataset.NewRemoteFetcher(dataset.DefaultFetcherConfig()))

	tables, err := loader.Load(ctx)
	if errors.Is(err, dataset.ErrDataUnavailable) {
	    // neither source could be read
	}

The remote fetch never panics or returns an error value directly; it returns
a FetchResult whose OK method tells the caller whether to fall back. The
fetcher sits behind a circuit breaker so that repeated reloads against a dead
endpoint are rejected without waiting for the timeout.

There are no retries and no backoff beyond the single fallback.
*/
package dataset
