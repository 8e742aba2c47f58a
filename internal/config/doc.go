// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads, merges and validates the process configuration.
//
// Configuration is assembled from several sources; a non-zero value from a
// later source overrides the earlier one:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Unset fields are then filled from built-in defaults. [GetStructuredConfig]
// serves the sync server and [GetClientConfig] the sync inspector client.
// The resulting struct is constructed once in main and passed explicitly to
// the components that need it.
package config
