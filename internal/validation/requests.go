// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package validation

// RecommendRequest is the input of GET /api/v1/recommendations.
// The accepted range of K is configurable and checked by the engine;
// here it only has to be positive.
type RecommendRequest struct {
	Title string `json:"title" validate:"required,notblank,max=512"`
	K     int    `json:"k" validate:"gte=1"`
}

// SuggestRequest is the input of GET /api/v1/titles.
type SuggestRequest struct {
	Prefix string `json:"q" validate:"max=256"`
	Limit  int    `json:"limit" validate:"min=0,max=100"`
}

// ListRequest bounds list endpoints such as GET /api/v1/builds.
type ListRequest struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
}
