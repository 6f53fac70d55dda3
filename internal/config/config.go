// Package config loads engine defaults (transposition table size,
// worker count, evaluator weights path) from an optional config file
// and the environment, layered over built-in defaults, using
// github.com/spf13/viper the way macondo's configuration loader does.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the tunables a caller can override without recompiling.
type Config struct {
	TTSizeMB   int
	Threads    int
	WeightsPath string
	MultiPV    int
}

// Load reads configuration from (in priority order) environment
// variables prefixed REVERSI_, a config file named reversi.yaml on the
// search path, and built-in defaults.
func Load(configPaths ...string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REVERSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tt_size_mb", 256)
	v.SetDefault("threads", 1)
	v.SetDefault("weights_path", "weights.bin.zst")
	v.SetDefault("multi_pv", 1)

	v.SetConfigName("reversi")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	return Config{
		TTSizeMB:    v.GetInt("tt_size_mb"),
		Threads:     v.GetInt("threads"),
		WeightsPath: v.GetString("weights_path"),
		MultiPV:     v.GetInt("multi_pv"),
	}, nil
}
