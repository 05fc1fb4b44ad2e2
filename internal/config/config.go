// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Game     Game
}

type Server struct {
	Address string
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Game holds the live-session timing knobs.
type Game struct {
	QuestionTimeSeconds  int
	RevealDelaySeconds   int
	IdleTimeoutMinutes   int
	SweepIntervalSeconds int
}

func (g Game) RevealDelay() time.Duration {
	return time.Duration(g.RevealDelaySeconds) * time.Second
}

func (g Game) IdleTimeout() time.Duration {
	return time.Duration(g.IdleTimeoutMinutes) * time.Minute
}

func (g Game) SweepInterval() time.Duration {
	return time.Duration(g.SweepIntervalSeconds) * time.Second
}

// Load reads configuration from an optional yaml file, with environment
// variables (e.g. DATABASE_HOST, SERVER_ADDRESS) taking precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "codemaster")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("game.questiontimeseconds", 30)
	v.SetDefault("game.revealdelayseconds", 10)
	v.SetDefault("game.idletimeoutminutes", 10)
	v.SetDefault("game.sweepintervalseconds", 60)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Game.QuestionTimeSeconds <= 0 {
		return nil, fmt.Errorf("game question time must be positive")
	}

	return &cfg, nil
}
