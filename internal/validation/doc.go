// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package validation provides struct validation using go-playground/validator v10.
//
// It holds a thread-safe singleton validator, the request types accepted by
// the HTTP API, and translation of validator errors into the API error
// format.
//
// # Quick Start
//
//	req := validation.RecommendRequest{Title: r.URL.Query().Get("title"), K: k}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Field Names
//
// Errors name fields by their json tag, which is also the query parameter
// name, so a client sees "title is required" rather than "Title is required".
//
// # Custom Validators
//
//   - notblank: the string must contain something other than whitespace
//
// # Error Format
//
// ToAPIError returns code VALIDATION_ERROR. A single failure carries
// field, tag and value in Details; several failures are listed under
// Details["fields"] and joined with "; " in the message.
package validation
