package rewrite

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/storekit/storefront/internal/httpx"
)

// Fallback returns middleware that intercepts not-found responses and
// consults the rewrite table before letting the 404 out. Both flavours of
// 404 flow through here: the catch-all route for paths nothing matched,
// and handlers reporting a missing resource. A matching rewrite turns the
// response into a 301 with the original query string re-appended; a miss
// releases the buffered 404 exactly as the handler wrote it. Responses
// with any other status are never touched.
func Fallback(svc Service, logger *slog.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			iw := &notFoundInterceptor{ResponseWriter: w}
			next.ServeHTTP(iw, r)

			if !iw.intercepted {
				return
			}

			target, err := svc.Resolve(r.Context(), r.Method, r.URL.Path, r.URL.RawQuery)
			if err != nil {
				logger.ErrorContext(r.Context(), "rewrite lookup failed",
					"request_id", httpx.GetRequestID(r.Context()),
					"path", r.URL.Path,
					"error", err.Error(),
				)
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
					"Unable to process this request at this time", nil)
				return
			}

			if target == "" {
				iw.release()
				return
			}

			logger.InfoContext(r.Context(), "redirecting via url rewrite",
				"request_id", httpx.GetRequestID(r.Context()),
				"path", r.URL.Path,
				"target", target,
			)

			header := w.Header()
			header.Del("Content-Type")
			header.Del("Content-Length")
			header.Set("Location", target)
			w.WriteHeader(http.StatusMovedPermanently)
		})
	}
}

// notFoundInterceptor passes every response through untouched except a
// 404, which it holds back (status and body) until the fallback decides
// whether to redirect instead.
type notFoundInterceptor struct {
	http.ResponseWriter
	intercepted bool
	wroteHeader bool
	status      int
	body        bytes.Buffer
}

func (w *notFoundInterceptor) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if code == http.StatusNotFound {
		w.intercepted = true
		w.status = code
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *notFoundInterceptor) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.intercepted {
		return w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// release sends the held-back 404 unmodified.
func (w *notFoundInterceptor) release() {
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(w.body.Bytes())
}
