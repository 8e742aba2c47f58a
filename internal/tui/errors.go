// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-bankroll-sync/internal/adapter"
)

func humanizeSyncError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Token was rejected, check ADAPTER_TOKEN"
	case errors.Is(err, adapter.ErrForbidden):
		return "Account is not allowed to sync"
	case errors.Is(err, adapter.ErrServiceUnavailable):
		return "Server storage is unavailable, try again later"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network is down or server is unreachable"
	}

	return err.Error()
}
