package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
)

// SchemeCache caches parsed provider payloads with a TTL. A Get hit only
// reports entries that are still fresh; stale entries behave as misses.
type SchemeCache interface {
	Get(ctx context.Context, code string) (*models.Scheme, bool, error)
	Set(ctx context.Context, code string, scheme *models.Scheme) error
	GetList(ctx context.Context) ([]models.SchemeListEntry, bool, error)
	SetList(ctx context.Context, entries []models.SchemeListEntry) error
	Invalidate(ctx context.Context, code string) error
	Purge(ctx context.Context) (int, error)
	TTL() time.Duration
}

// FundStore persists the fund directory and sync job records.
type FundStore interface {
	Get(ctx context.Context, schemeCode int64) (*models.FundRecord, error)
	Upsert(ctx context.Context, record *models.FundRecord) error
	MarkAllInactive(ctx context.Context) (int, error)
	Query(ctx context.Context, query models.FundsQuery) (*models.FundsPage, error)
	Stats(ctx context.Context) (*models.FundsStats, error)
	SaveSyncJob(ctx context.Context, job *models.SyncJob) error
	LastSyncJob(ctx context.Context) (*models.SyncJob, error)
}

// StorageManager coordinates the 2 storage areas: scheme cache and funds.
type StorageManager interface {
	SchemeCache() SchemeCache
	FundStore() FundStore
	Close() error
}
