package web

import (
	"io/fs"
	"net/http"
)

// ErrorHandler captures 404 errors and serves notFound from the file system in
// their place, keeping the 404 status. An empty notFound disables it, as does a
// notFound file that cannot be read.
func ErrorHandler(h http.Handler, fsys fs.FS, notFound string) http.Handler {
	if notFound == "" {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			fsys:           fsys,
			notFound:       notFound,
		}
		h.ServeHTTP(writer, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	fsys     fs.FS
	notFound string
	noWrite  bool
	err      error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if statusCode == http.StatusNotFound {
		b, err := fs.ReadFile(w.fsys, w.notFound)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}
