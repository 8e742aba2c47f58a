// Package http exposes the sync engine over HTTP.
//
// Routes are served by a chi router: the pull and push endpoints under
// /api/v1/sync require a bearer token, /api/version does not. Trace ids,
// access logging and gzip are handled by middleware before a request
// reaches the sync service.
package http
