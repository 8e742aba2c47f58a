package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGZip inflates gzip request bodies and compresses responses for
// clients that send "Accept-Encoding: gzip". Sync payloads are JSON and
// compress well, so every response is eligible.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr := gzipReaderPool.Get().(*gzip.Reader)
			if err := zr.Reset(r.Body); err != nil {
				gzipReaderPool.Put(zr)
				http.Error(w, "invalid gzip body", http.StatusBadRequest)
				return
			}

			r.Body = &gzipBody{Reader: zr, closer: r.Body, pool: &gzipReaderPool}
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1
		}

		w.Header().Add("Vary", "Accept-Encoding")
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(w)
		gw := &gzipResponseWriter{ResponseWriter: w, zw: zw}

		next.ServeHTTP(gw, r)

		if gw.wroteHeader {
			zw.Close()
		}
		gzipWriterPool.Put(zw)
	})
}

// gzipBody returns its reader to the pool when the request body is closed.
type gzipBody struct {
	*gzip.Reader
	closer io.Closer
	pool   *sync.Pool
	once   sync.Once
}

func (b *gzipBody) Close() error {
	b.once.Do(func() {
		b.Reader.Close()
		b.pool.Put(b.Reader)
	})
	return b.closer.Close()
}

// gzipResponseWriter compresses everything written through it. The
// Content-Encoding header is set when the status line goes out.
type gzipResponseWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.zw.Write(data)
}
