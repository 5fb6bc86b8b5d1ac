// /internal/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/keshon/herald/internal/help"
	"github.com/keshon/herald/internal/permission"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrUnreadable            = errors.New("you did not supply a valid config path")
	ErrMissingTokenName      = errors.New("a token name in the config was not provided")
	ErrMissingToken          = errors.New("no token was provided in the environment")
	ErrMissingPermissionData = errors.New("permission data in the config was not provided")
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, falling back to system environment variables")
	}
}

// Env holds process settings read from the environment.
type Env struct {
	ConfigPath     string        `env:"HERALD_CONFIG" envDefault:"config.json"`
	CommandsDir    string        `env:"HERALD_COMMANDS_DIR" envDefault:"commands"`
	EventsDir      string        `env:"HERALD_EVENTS_DIR" envDefault:"events"`
	PluginExt      string        `env:"HERALD_PLUGIN_EXT" envDefault:".so"`
	StorageDSN     string        `env:"HERALD_STORAGE_DSN" envDefault:"herald.db"`
	LogFile        string        `env:"HERALD_LOG_FILE" envDefault:"herald.log"`
	LogLevel       string        `env:"HERALD_LOG_LEVEL" envDefault:"info"`
	ReloadSchedule string        `env:"HERALD_RELOAD_SCHEDULE"`
	Watch          bool          `env:"HERALD_WATCH" envDefault:"false"`
	SyncPace       time.Duration `env:"HERALD_SYNC_PACE" envDefault:"25ms"`
}

// Document is the bot config file.
type Document struct {
	TokenName                 string           `json:"tokenName"`
	Prefix                    string           `json:"prefix"`
	PermissionData            permission.Table `json:"permissionData"`
	CommandLoadedMessage      bool             `json:"commandLoadedMessage"`
	EventLoadedMessage        bool             `json:"eventLoadedMessage"`
	BuiltInHelpCommand        *help.Style      `json:"builtInHelpCommand"`
	DeleteUnusedSlashCommands bool             `json:"deleteUnusedSlashCommands"`
}

type Config struct {
	Env
	Document
	Token string
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// LoadDocument reads a JSON config file, or TOML when the name ends in .toml.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
		}
		// TOML shares the JSON field names and permission spec parsing
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
		}
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	if doc.TokenName == "" {
		return nil, ErrMissingTokenName
	}
	if doc.PermissionData == nil {
		return nil, ErrMissingPermissionData
	}
	if err := permission.DetectCycles(doc.PermissionData); err != nil {
		slog.Warn("Permission aliases reference themselves; the cycle evaluates to false", "err", err)
	}
	return &doc, nil
}

// New reads the environment, the config file it points at and the token.
func New() (*Config, error) {
	e, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	doc, err := LoadDocument(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	token := os.Getenv(doc.TokenName)
	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingToken, doc.TokenName)
	}
	return &Config{Env: e, Document: *doc, Token: token}, nil
}
