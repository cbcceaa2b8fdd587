package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	NarratorTimeout time.Duration
	SaveDir         string
	EvidenceDir     string
	Seed            uint64
	LogFile         string
	DBDialect       string
	DBSQLitePath    string
	DBPostgresDSN   string
	Rules           Rules
}

// LoadConfig loads the configuration from environment variables, after
// merging any .env file found in the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		SaveDir:       os.Getenv("KINGDOM_SAVE_DIR"),
		EvidenceDir:   os.Getenv("KINGDOM_EVIDENCE_DIR"),
		LogFile:       os.Getenv("KINGDOM_LOG_FILE"),
		DBDialect:     strings.ToLower(strings.TrimSpace(os.Getenv("DB_DIALECT"))),
		DBSQLitePath:  strings.TrimSpace(os.Getenv("DB_SQLITE_PATH")),
		DBPostgresDSN: strings.TrimSpace(os.Getenv("DB_POSTGRES_DSN")),
		Rules:         DefaultRules(),
	}
	if cfg.DBPostgresDSN == "" {
		cfg.DBPostgresDSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	var problems []string
	if raw := os.Getenv("KINGDOM_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("KINGDOM_SEED %q is not an unsigned integer", raw))
		}
		cfg.Seed = seed
	}
	if raw := os.Getenv("KINGDOM_NARRATOR_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("KINGDOM_NARRATOR_TIMEOUT %q is not a duration", raw))
		}
		cfg.NarratorTimeout = d
	}
	if path := os.Getenv("KINGDOM_RULES_FILE"); path != "" {
		rules, err := LoadRules(path)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}
	if len(problems) > 0 {
		return nil, models.Detail(models.ErrConfigInvalid, "%v", problems)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.5-flash"
	}
	if c.NarratorTimeout == 0 {
		c.NarratorTimeout = 20 * time.Second
	}
	if c.SaveDir == "" {
		c.SaveDir = ".saves"
	}
	if c.DBDialect == "sqlite" && c.DBSQLitePath == "" {
		c.DBSQLitePath = filepath.Join(c.SaveDir, "kingdom.sqlite")
	}
}

func (c *Config) validate() error {
	var problems []string

	switch c.DBDialect {
	case "", "sqlite":
	case "postgres":
		if c.DBPostgresDSN == "" {
			problems = append(problems, "DB_DIALECT=postgres requires DB_POSTGRES_DSN or DATABASE_URL")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DIALECT %q", c.DBDialect))
	}
	if c.NarratorTimeout < 0 {
		problems = append(problems, "narrator timeout must not be negative")
	}
	if err := c.Rules.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return models.Detail(models.ErrConfigInvalid, "%v", problems)
	}
	return nil
}

// StoreDSN returns the data source for the configured dialect, or "" when
// saves go to plain files.
func (c *Config) StoreDSN() string {
	switch c.DBDialect {
	case "sqlite":
		return c.DBSQLitePath
	case "postgres":
		return c.DBPostgresDSN
	}
	return ""
}

// LoadRules reads a YAML rules file. Fields it omits keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, models.Wrap(models.ErrConfigInvalid, fmt.Errorf("parse rules file: %w", err))
	}
	return rules, nil
}
