// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// minCompressSize is the smallest body worth compressing.
const minCompressSize = 1024

// gzipWriterPool pools gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

// gzipResponseWriter buffers the first minCompressSize bytes of a response
// and only then decides whether to compress. Headers are sent once the
// decision is made.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz *gzip.Writer

	buf         []byte
	status      int
	decided     bool
	compressing bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.decided || w.status != 0 {
		return
	}
	w.status = status
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.decided {
		if w.compressing {
			return w.gz.Write(b)
		}
		return w.ResponseWriter.Write(b)
	}

	w.buf = append(w.buf, b...)
	if len(w.buf) >= minCompressSize {
		if err := w.start(true); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// start sends headers and the buffered bytes.
func (w *gzipResponseWriter) start(compress bool) error {
	w.decided = true
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	h := w.Header()
	if compress && h.Get("Content-Encoding") == "" && bodyAllowed(status) {
		w.compressing = true
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length") // Length will be different after compression
		w.gz.Reset(w.ResponseWriter)
	}

	w.ResponseWriter.WriteHeader(status)
	if len(w.buf) == 0 {
		return nil
	}

	var err error
	if w.compressing {
		_, err = w.gz.Write(w.buf)
	} else {
		_, err = w.ResponseWriter.Write(w.buf)
	}
	w.buf = nil
	return err
}

// finish flushes whatever is left. Small bodies go out uncompressed.
func (w *gzipResponseWriter) finish() error {
	if !w.decided {
		if err := w.start(false); err != nil {
			return err
		}
	}
	if w.compressing {
		return w.gz.Close()
	}
	return nil
}

func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

// Compression middleware gzips responses larger than 1KB for clients that
// accept gzip. HEAD requests pass through untouched.
func Compression(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || !acceptsGzip(r) {
			next(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)

		gzw := &gzipResponseWriter{ResponseWriter: w, gz: gz}
		defer func() {
			_ = gzw.finish() // Best-effort: the client may have gone away
		}()

		next(gzw, r)
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}
