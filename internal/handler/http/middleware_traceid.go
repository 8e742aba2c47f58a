package http

import (
	"net/http"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a request-scoped logger tagged with the caller's
// X-Trace-ID, or a fresh UUIDv7 when the header is absent, and echoes the id
// back in the response.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = h.traceIDs.Generate()
		}

		ctx, _ := h.logger.WithTraceID(r.Context(), traceID)

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
