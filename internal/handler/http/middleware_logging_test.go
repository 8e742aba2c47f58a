package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		handler    http.HandlerFunc
		wantStatus float64
		wantSize   float64
	}{
		{
			name:       "explicit status and body",
			method:     http.MethodPost,
			target:     "/api/v1/sync/push",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated); w.Write([]byte("done")) },
			wantStatus: http.StatusCreated,
			wantSize:   4,
		},
		{
			name:       "implicit 200 on write",
			method:     http.MethodGet,
			target:     "/api/version",
			handler:    func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("1.0")) },
			wantStatus: http.StatusOK,
			wantSize:   3,
		},
		{
			name:       "handler wrote nothing",
			method:     http.MethodGet,
			target:     "/empty",
			handler:    func(http.ResponseWriter, *http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "second WriteHeader ignored",
			method: http.MethodGet,
			target: "/twice",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: bufferLogger(&buf), traceIDs: utils.NewUUIDGenerator()}

			rec := serve(h.withTraceID(h.withLogging(tt.handler)), tt.method, tt.target, "", nil)
			assert.Equal(t, int(tt.wantStatus), rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.target, entry["uri"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, tt.wantSize, entry["size"])
			assert.Contains(t, entry, "duration")
			assert.Equal(t, rec.Header().Get(traceIDHeader), entry["trace_id"])
		})
	}
}
