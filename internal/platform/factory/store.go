package factory

import (
	"fmt"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/store"
	"github.com/piquique/daybook/internal/store/postgres"
	"github.com/piquique/daybook/internal/store/sqlite"
)

// NewStore selects the snapshot store backend from cfg.StoreDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		return postgres.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
