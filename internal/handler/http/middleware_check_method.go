// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns the router's MethodNotAllowed handler. A path that
// is registered for other methods gets 405 with an Allow header listing
// them; anything else is answered with 404.
//
// Routes are looked up by walking the router, so patterns of nested
// sub-routers are matched by their full path.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if route == r.URL.Path && !slices.Contains(allowed, method) {
				allowed = append(allowed, method)
			}
			return nil
		})

		if len(allowed) == 0 {
			notFound(w, r)
			return
		}

		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeStatus(w, http.StatusMethodNotAllowed)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusNotFound)
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + strings.ToLower(http.StatusText(status)) + `"}`))
}
