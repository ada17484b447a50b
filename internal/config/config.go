package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the daybook pipeline and service.
// Environment variables are parsed from the DAYBOOK_ prefix, e.g.
// DAYBOOK_HTTP_PORT, DAYBOOK_PHOTOS_ROOT.
type Config struct {
	// Source exports consumed by the unification run.
	CalendarCSV  string `envconfig:"CALENDAR_CSV" default:"data/eventos_limpios.csv"`
	DocumentsCSV string `envconfig:"DOCUMENTS_CSV" default:"data/documentos_paperless.csv"`
	HealthJSON   string `envconfig:"HEALTH_JSON" default:"data/health_data.json"`
	PhotosRoot   string `envconfig:"PHOTOS_ROOT" default:"data/fotos"`

	// Unified snapshot written per run and read by the service.
	SnapshotCSV string `envconfig:"SNAPSHOT_CSV" default:"data/datos_unificados.csv"`

	// Snapshot store backing the read API.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/daybook.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Collaborator exporter inputs.
	PaperlessDB  string `envconfig:"PAPERLESS_DB" default:"data/db_copy.sqlite3"`
	HealthZip    string `envconfig:"HEALTH_ZIP" default:"data/salud_conectada.zip"`
	HealthUnzip  string `envconfig:"HEALTH_UNZIP" default:"data/salud_conectada_unzip"`
	MergeExports bool   `envconfig:"MERGE_EXPORTS" default:"false"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Narrative generator (Ollama)
	OllamaURL     string `envconfig:"OLLAMA_URL" default:"http://127.0.0.1:11435"`
	OllamaModel   string `envconfig:"OLLAMA_MODEL" default:"qwen2.5:1.5b"`
	OllamaTimeout int    `envconfig:"OLLAMA_TIMEOUT_SECONDS" default:"120"`
}

// ResolveDefaults validates driver selection.
func (c *Config) ResolveDefaults() error {
	switch c.StoreDriver {
	case "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	return nil
}

// New creates a Config by parsing DAYBOOK_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DAYBOOK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Int("port", cfg.HTTPPort).
		Str("snapshot", cfg.SnapshotCSV).
		Str("photos_root", cfg.PhotosRoot).
		Str("ollama_model", cfg.OllamaModel).
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
