// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: schemecache and fundsdb.
package storage

import (
	"fmt"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/storage/fundsdb"
	"github.com/bobmcallan/navcalc/internal/storage/schemecache"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	cache  *schemecache.Store
	funds  *fundsdb.Store
	logger *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	cacheStore, err := schemecache.NewStore(logger, config.Storage.Cache.Path, config.Clients.MFAPI.GetCacheTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to create scheme cache: %w", err)
	}

	fundStore, err := fundsdb.NewStore(logger, config.Storage.Funds.Path)
	if err != nil {
		cacheStore.Close()
		return nil, fmt.Errorf("failed to create fund store: %w", err)
	}

	logger.Info().
		Str("cache", config.Storage.Cache.Path).
		Str("funds", config.Storage.Funds.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		cache:  cacheStore,
		funds:  fundStore,
		logger: logger,
	}, nil
}

func (m *Manager) SchemeCache() interfaces.SchemeCache {
	return m.cache
}

func (m *Manager) FundStore() interfaces.FundStore {
	return m.funds
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.funds.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
