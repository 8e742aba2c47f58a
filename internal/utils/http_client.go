package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client so that callers share one place for the
// client defaults of the sync adapter.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client for baseURL with the given request timeout.
// Requests advertise gzip and JSON.
//
//	client := utils.NewHTTPClient("http://localhost:8080", 15*time.Second)
//	resp, err := client.R().SetBody(req).Post("/api/v1/sync/push")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Encoding", "gzip")

	return &HTTPClient{Client: client}
}
