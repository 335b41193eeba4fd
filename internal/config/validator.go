package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any
// are invalid. Call after Load.
func ValidateConfig() error {
	var errors []string

	if interval := viper.GetInt("watch_interval"); interval <= 0 {
		errors = append(errors, fmt.Sprintf("watch_interval must be positive, got: %d", interval))
	}

	if threshold := viper.GetInt("summary_repeat_threshold"); threshold < 0 {
		errors = append(errors, fmt.Sprintf("summary_repeat_threshold must not be negative, got: %d", threshold))
	}

	if viper.GetString("error_log") == "" {
		errors = append(errors, "error_log must not be empty")
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}
