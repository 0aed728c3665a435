package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is loaded once at startup and read-only afterwards. Values come
// from the YAML config file when present, with environment variables (and a
// local .env file) taking precedence.
type Config struct {
	DiscordToken  string `yaml:"token" env:"DISCORD_API_TOKEN"`
	CommandPrefix string `yaml:"commandPrefix" env:"COMMAND_PREFIX"`
	StoragePath   string `yaml:"storagePath" env:"STORAGE_PATH"`

	AniList struct {
		ClientID     string `yaml:"api_client_id" env:"ANILIST_API_CLIENT_ID"`
		ClientSecret string `yaml:"api_client_secret" env:"ANILIST_API_SECRET"`
	} `yaml:"anilist"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		File  string `yaml:"file" env:"LOG_FILE"`
	} `yaml:"log"`
}

// Load reads the config file at path, if it exists, and applies environment
// overrides. A missing Discord token is an error; the process has nothing
// to do without one.
func Load(path string) (*Config, error) {
	// Missing .env is fine; the system environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		CommandPrefix: "!",
		StoragePath:   "datastore.json",
	}
	cfg.Log.Level = "info"

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Config file is optional when everything comes from env.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("no token provided in environment variables or %s", path)
	}
	return cfg, nil
}
