// Package config covers the two ends of CLI configuration: reading
// AI_DND_* environment variables into tagged structs and bailing out of
// a main with a formatted message.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates cfg from the environment variables named in its
// env struct tags, applying envDefault values for unset variables.
func ParseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
