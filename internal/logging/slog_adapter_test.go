// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&SlogHandler{logger: zerolog.New(buf)})
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(l *slog.Logger)
		level string
	}{
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(newBufferedSlog(&buf))
			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("expected %s in %s", tt.level, buf.String())
			}
		})
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newBufferedSlog(&buf).With("supervisor", "animerec").WithGroup("event")
	logger.Info("service restarted",
		slog.String("service", "dataset-warmup"),
		slog.Int("attempt", 2),
		slog.Bool("restarting", true),
		slog.Duration("backoff", time.Second),
	)

	output := buf.String()
	for _, want := range []string{
		`"supervisor":"animerec"`,
		`"event.service":"dataset-warmup"`,
		`"event.attempt":2`,
		`"event.restarting":true`,
		`"message":"service restarted"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in %s", want, output)
		}
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := &SlogHandler{logger: zerolog.Nop()}
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := &SlogHandler{logger: zerolog.New(nil).Level(zerolog.WarnLevel)}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestNewSlogLogger(t *testing.T) {
	t.Parallel()

	if NewSlogLogger() == nil {
		t.Fatal("NewSlogLogger() = nil")
	}
}
