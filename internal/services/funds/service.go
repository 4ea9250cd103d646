// Package funds maintains the fund activity directory: which schemes are
// still publishing NAVs, refreshed by walking the provider's directory.
package funds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// ErrSyncInProgress is returned when a sync is requested while another one
// is still running.
var ErrSyncInProgress = errors.New("fund directory sync already in progress")

// Service implements interfaces.FundsService.
type Service struct {
	client    interfaces.MFAPIClient
	store     interfaces.FundStore
	logger    *common.Logger
	batchSize int
	workers   int

	mu      sync.Mutex
	running bool
}

// NewService creates a new funds service.
func NewService(client interfaces.MFAPIClient, store interfaces.FundStore, logger *common.Logger, cfg common.SchedulerConfig) *Service {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	return &Service{
		client:    client,
		store:     store,
		logger:    logger,
		batchSize: batchSize,
		workers:   workers,
	}
}

// ActiveFunds pages the active fund directory.
func (s *Service) ActiveFunds(ctx context.Context, query models.FundsQuery) (*models.FundsPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 50
	}
	return s.store.Query(ctx, query)
}

// Stats summarizes the directory.
func (s *Service) Stats(ctx context.Context) (*models.FundsStats, error) {
	return s.store.Stats(ctx)
}

// LastSync returns the most recent sync job record.
func (s *Service) LastSync(ctx context.Context) (*models.SyncJob, error) {
	return s.store.LastSyncJob(ctx)
}

// SyncRunning reports whether a sync is currently in flight.
func (s *Service) SyncRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Sync walks the provider directory, checks each scheme's latest NAV date
// and rebuilds activity status. Only one sync runs at a time.
func (s *Service) Sync(ctx context.Context) (*models.SyncJob, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	job := &models.SyncJob{
		ID:        uuid.New().String()[:8],
		StartedAt: time.Now(),
		Status:    models.SyncStatusRunning,
	}
	if err := s.store.SaveSyncJob(ctx, job); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist sync job start")
	}

	records, total, err := s.collectActiveFunds(ctx)
	if err != nil {
		s.failSyncJob(ctx, job, err)
		return nil, err
	}

	// Everything starts inactive; active funds are re-upserted below.
	if _, err := s.store.MarkAllInactive(ctx); err != nil {
		err = fmt.Errorf("failed to reset fund activity: %w", err)
		s.failSyncJob(ctx, job, err)
		return nil, err
	}

	now := time.Now()
	for i := range records {
		records[i].LastChecked = now
		records[i].LastUpdated = now
		if err := s.store.Upsert(ctx, &records[i]); err != nil {
			s.logger.Warn().Err(err).Int64("code", records[i].SchemeCode).Msg("Fund upsert failed")
		}
	}

	job.Status = models.SyncStatusCompleted
	job.CompletedAt = time.Now()
	job.TotalChecked = total
	job.ActiveCount = len(records)
	job.InactiveCount = total - len(records)
	job.DurationMS = time.Since(job.StartedAt).Milliseconds()
	if err := s.store.SaveSyncJob(ctx, job); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist sync job completion")
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Int("total", job.TotalChecked).
		Int("active", job.ActiveCount).
		Int64("duration_ms", job.DurationMS).
		Msg("Fund directory sync completed")

	return job, nil
}

// failSyncJob records a failed outcome on the persisted job so a sync
// never stays "running" after its goroutine has returned.
func (s *Service) failSyncJob(ctx context.Context, job *models.SyncJob, cause error) {
	job.Status = models.SyncStatusFailed
	job.Error = cause.Error()
	job.CompletedAt = time.Now()
	job.DurationMS = time.Since(job.StartedAt).Milliseconds()
	if err := s.store.SaveSyncJob(ctx, job); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist sync job failure")
	}
}

// collectActiveFunds checks every directory entry's latest NAV through a
// bounded worker pool and returns records for the active ones.
func (s *Service) collectActiveFunds(ctx context.Context) ([]models.FundRecord, int, error) {
	entries, err := s.client.ListSchemes(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list provider directory: %w", err)
	}

	s.logger.Info().Int("schemes", len(entries)).Msg("Checking fund directory for active NAV data")

	var (
		mu        sync.Mutex
		records   []models.FundRecord
		processed atomic.Int64
		wg        sync.WaitGroup
	)

	work := make(chan models.SchemeListEntry)
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range work {
				record, active := s.checkFund(ctx, entry)
				if active {
					mu.Lock()
					records = append(records, record)
					mu.Unlock()
				}
				if n := processed.Add(1); n%int64(s.batchSize) == 0 {
					s.logger.Debug().
						Int64("processed", n).
						Int("total", len(entries)).
						Msg("Fund sync progress")
				}
			}
		}()
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		work <- entry
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	return records, len(entries), nil
}

// checkFund fetches one scheme and reports whether its latest NAV falls
// within the activity window. Fetch failures count as inactive.
func (s *Service) checkFund(ctx context.Context, entry models.SchemeListEntry) (models.FundRecord, bool) {
	scheme, err := s.client.GetScheme(ctx, fmt.Sprintf("%d", entry.Code()))
	if err != nil || len(scheme.Data) == 0 {
		return models.FundRecord{}, false
	}

	// The provider lists NAV rows newest first.
	latest, ok := navseries.ParseDate(scheme.Data[0].Date)
	if !ok {
		return models.FundRecord{}, false
	}
	if !common.IsFresh(latest, common.FreshnessActivity) {
		return models.FundRecord{}, false
	}

	series := navseries.Parse(scheme.Data)
	var latestNav float64
	if p, ok := series.Latest(); ok {
		latestNav = p.Nav
	}

	name := entry.SchemeName
	if scheme.Meta.SchemeName != "" {
		name = scheme.Meta.SchemeName
	}

	return models.FundRecord{
		SchemeCode:    entry.Code(),
		SchemeName:    name,
		FundHouse:     scheme.Meta.FundHouse,
		Category:      ClassifyCategory(name),
		ISINGrowth:    entry.ISINGrowth,
		LatestNavDate: latest,
		LatestNav:     latestNav,
		IsActive:      true,
	}, true
}

// Category keyword sets, matched against the scheme name. Checked in
// order: the index and hybrid markers are more specific than the broad
// equity ones ("growth" appears in nearly every plan name).
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"index", []string{"index", "nifty", "sensex"}},
	{"hybrid", []string{"hybrid", "balanced", "aggressive", "conservative", "dynamic"}},
	{"debt", []string{"debt", "bond", "income", "gilt", "liquid"}},
	{"equity", []string{"equity", "growth", "bluechip", "large cap", "mid cap", "small cap"}},
}

// ClassifyCategory buckets a scheme name into a broad category.
func ClassifyCategory(schemeName string) string {
	name := strings.ToLower(schemeName)
	for _, cat := range categoryKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(name, kw) {
				return cat.name
			}
		}
	}
	return "other"
}

// Compile-time check
var _ interfaces.FundsService = (*Service)(nil)
