package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	Addr  string `mapstructure:"addr"`
	Debug bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type GameConfig struct {
	// RatingDelta is the fixed rating movement applied to both winner and
	// loser of a completed match. Not Elo-proportional.
	RatingDelta int `mapstructure:"rating_delta"`
	// MaxTeamSize caps the number of pairs per side at match creation.
	MaxTeamSize int `mapstructure:"max_team_size"`
	// Rate limit applied per client IP to the move-submission endpoint.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("database.path", "./data/arena.db")
	v.SetDefault("game.rating_delta", 25)
	v.SetDefault("game.max_team_size", 5)
	v.SetDefault("game.rate_limit_rps", 10)
	v.SetDefault("game.rate_limit_burst", 20)
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no config file is
// provided (local development, tests).
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Unmarshal of defaults cannot fail: the keys mirror the struct.
	_ = v.Unmarshal(cfg)
	return cfg
}
