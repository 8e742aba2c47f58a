// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the APP_, STORAGE_DB_, SERVER_, SYNC_, WORKERS_ and
// ADAPTER_ variables. Unset variables leave zero values so that defaults and
// the other sources can fill them during the merge.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrReadingEnv, err)
	}

	return nil
}
