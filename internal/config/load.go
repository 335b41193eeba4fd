package config

import (
	"strings"

	"que/internal/pbs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("QUE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("qstat_bin", "")
	viper.SetDefault("server_suffix", ".pbs02")
	viper.SetDefault("error_log", pbs.DefaultErrorLog)
	viper.SetDefault("watch_interval", 15)
	viper.SetDefault("summary_repeat_threshold", 30)
	viper.SetDefault("no_color", false)
	viper.SetDefault("verbose", false)

	// Missing config file is fine too; the logger is not configured yet,
	// so reporting the resolved path is left to the caller.
	viper.ReadInConfig()
}
