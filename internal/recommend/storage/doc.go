// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package storage persists model build reports.
//
// Every load + build attempt made by the recommendation engine produces a
// recommend.BuildReport: which source served the ratings, why a fallback
// happened, how many rows were read and dropped, and the resulting matrix
// sizes. ReportStore keeps the most recent reports in BadgerDB so operators
// can inspect build history through GET /api/v1/builds.
//
// # Storage Format
//
// Reports are JSON-encoded (goccy/go-json) under keys of the form
//
//	report/<unix nanos, 20 digits>-<report id>
//
// so that key order is start-time order. After each write the oldest keys
// beyond the configured history are deleted.
//
// # Usage Example
//
//	store, err := storage.Open(cfg.Storage.Path, cfg.Storage.ReportHistory)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	engine.SetReportRecorder(store)
//
//	recent, err := store.List(ctx, 10) // newest first
//
// An empty path opens an in-memory database; reports then last only as long
// as the process.
package storage
