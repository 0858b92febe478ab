// Package gzippedhttp provides middleware for transparent gzip handling:
// decompressing compressed request bodies and compressing responses for
// clients that accept gzip.
package gzippedhttp

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

type compressedResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (c *compressedResponseWriter) WriteHeader(statusCode int) {
	if statusCode < 300 {
		c.ResponseWriter.Header().Set("Content-Encoding", "gzip")
	}
	c.ResponseWriter.WriteHeader(statusCode)
}

func (c *compressedResponseWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *compressedResponseWriter) close() {
	_ = c.zw.Close()
	gzipWriterPool.Put(c.zw)
}

// GzipResponse compresses the response body when the request's
// Accept-Encoding header allows gzip.
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(response, request)

			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(response)
		compressed := &compressedResponseWriter{ResponseWriter: response, zw: zw}
		defer compressed.close()

		h.ServeHTTP(compressed, request)
	}

	return http.HandlerFunc(middleware)
}

// UngzipRequest replaces the request body with a decompressing reader
// when the Content-Encoding header declares gzip.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			h.ServeHTTP(response, request)

			return
		}

		zr, err := gzip.NewReader(request.Body)
		if err != nil {
			http.Error(response, err.Error(), http.StatusBadRequest)

			return
		}
		defer zr.Close()

		request.Body = zr
		request.Header.Del("Content-Encoding")

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
