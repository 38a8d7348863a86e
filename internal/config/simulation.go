package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Simulation holds configuration for the batch match runner.
type Simulation struct {
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	Matches     int    `yaml:"matches" env:"MATCHES"`
	Workers     int    `yaml:"workers" env:"WORKERS"`
	Seed        int64  `yaml:"seed" env:"SEED"` // 0 picks a random master seed
	MaxTurns    int    `yaml:"max_turns" env:"MAX_TURNS"`
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH"` // empty uses the embedded catalog
	PlayerDeck  string `yaml:"player_deck" env:"PLAYER_DECK"`
	EnemyDeck   string `yaml:"enemy_deck" env:"ENEMY_DECK"`

	Balance  Balance        `yaml:"balance" envPrefix:"BALANCE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:   "info",
		Matches:    100,
		Workers:    4,
		MaxTurns:   200,
		PlayerDeck: "paladin",
		EnemyDeck:  "paladin",
		Balance:    DefaultBalance(),
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "duelcore",
			Password: "duelcore",
			DBName:   "duelcore",
			SSLMode:  "disable",
		},
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the runner cannot work with.
func (s Simulation) Validate() error {
	if s.Matches <= 0 {
		return fmt.Errorf("matches must be positive, got %d", s.Matches)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", s.MaxTurns)
	}
	if s.Balance.Energy.MaxEnergy < 0 || s.Balance.Board.SlotsPerZone <= 0 {
		return fmt.Errorf("invalid balance: max_energy=%d slots_per_zone=%d",
			s.Balance.Energy.MaxEnergy, s.Balance.Board.SlotsPerZone)
	}
	return nil
}
