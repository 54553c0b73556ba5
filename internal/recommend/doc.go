// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package recommend implements item-based collaborative filtering over anime
ratings.

# Model

Build turns the anime and ratings tables into a Model holding two matrices:

  - the rating matrix, one row per title and one column per user, where a
    cell is the user's mean rating of the title (0 when unrated)
  - the similarity matrix, the cosine similarity of every pair of rows

Ratings equal to the unrated sentinel (-1) are dropped first, and ratings
whose anime_id has no metadata row are dropped by the inner join. Rows are
sorted by title and columns by user id; this order breaks ties between equal
scores. Cosine with an all-zero row is defined as 0.

The rating matrix is stored sparse. Similarity is computed in parallel over
chunks of rows and stored as a packed upper triangle, since it is symmetric.

# Queries

	recs := model.Recommend("Clannad", 5)
	for _, r := range recs {
	    fmt.Printf("%d. %s (%.3f)\n", r.Rank, r.Title, r.Score)
	}

Unknown titles return an empty slice rather than an error.

# Engine

Engine holds the process-wide Model. The first call to Model, Recommend or
Titles builds it; concurrent first callers wait on the same build. A failed
build is not cached, so the next request retries. Reload replaces the model
explicitly and keeps the old one if the new build fails. Responses are cached
in a bounded LRU that is cleared whenever the model changes.

	engine, _ := recommend.NewEngine(recommend.DefaultConfig(), loader, logger)
	resp, err := engine.Recommend(ctx, "Steins;Gate", 5)

# Thread Safety

Model is immutable. Engine methods are safe for concurrent use.
*/
package recommend
