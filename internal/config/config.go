// Package config loads settings for the converter binaries from flags,
// environment (UNITCONV_*) and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig `mapstructure:"server"`
	Log           LogConfig    `mapstructure:"log"`
	Batch         BatchConfig  `mapstructure:"batch"`
	AllowNegative bool         `mapstructure:"allow_negative"`
}

type ServerConfig struct {
	Address   string  `mapstructure:"address"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client, 0 disables
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"` // 0 means runtime.NumCPU()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("batch.workers", 0)
	v.SetDefault("allow_negative", false)
}

// Load resolves configuration. Flag values win over the environment, which
// wins over the file, which wins over defaults. path may be empty.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNITCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		bind := map[string]string{
			"log.level":      "log-level",
			"allow_negative": "allow-negative",
			"server.address": "address",
			"batch.workers":  "workers",
		}
		for key, name := range bind {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must be >= 0")
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0")
	}
	return nil
}
