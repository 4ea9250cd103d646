// Package fundsdb persists the fund directory and sync job records using
// BadgerHold.
package fundsdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
)

// Store implements interfaces.FundStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens the funds database at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create funds path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open funds database at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Funds database opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Get(_ context.Context, schemeCode int64) (*models.FundRecord, error) {
	var rec models.FundRecord
	if err := s.db.Get(schemeCode, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fund %d: %w", schemeCode, err)
	}
	return &rec, nil
}

func (s *Store) Upsert(_ context.Context, record *models.FundRecord) error {
	if err := s.db.Upsert(record.SchemeCode, record); err != nil {
		return fmt.Errorf("failed to upsert fund %d: %w", record.SchemeCode, err)
	}
	return nil
}

// MarkAllInactive flips every active fund to inactive. A sync run calls this
// first, then re-activates the funds it finds fresh NAVs for.
func (s *Store) MarkAllInactive(_ context.Context) (int, error) {
	count := 0
	err := s.db.UpdateMatching(&models.FundRecord{},
		badgerhold.Where("IsActive").Eq(true).Index("IsActive"),
		func(record interface{}) error {
			rec, ok := record.(*models.FundRecord)
			if !ok {
				return fmt.Errorf("unexpected record type %T", record)
			}
			rec.IsActive = false
			count++
			return nil
		})
	if err != nil {
		return count, fmt.Errorf("failed to mark funds inactive: %w", err)
	}
	return count, nil
}

// Query pages the active fund directory with optional search, category and
// sort parameters.
func (s *Store) Query(_ context.Context, query models.FundsQuery) (*models.FundsPage, error) {
	var active []models.FundRecord
	if err := s.db.Find(&active, badgerhold.Where("IsActive").Eq(true).Index("IsActive")); err != nil {
		return nil, fmt.Errorf("failed to query funds: %w", err)
	}

	filtered := active[:0:0]
	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.ToLower(strings.TrimSpace(query.Category))
	for _, rec := range active {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.SchemeName), search) &&
			!strings.Contains(strings.ToLower(rec.FundHouse), search) {
			continue
		}
		if category != "" && !strings.EqualFold(rec.Category, category) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sortFunds(filtered, query.SortBy, query.SortOrder)

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 50
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := filtered[start:end]
	if data == nil {
		data = []models.FundRecord{}
	}

	return &models.FundsPage{
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    end < total,
		TotalPages: totalPages,
		Data:       data,
	}, nil
}

func sortFunds(funds []models.FundRecord, sortBy string, order int) {
	desc := order == -1
	less := func(i, j int) bool {
		switch sortBy {
		case "fundHouse":
			return funds[i].FundHouse < funds[j].FundHouse
		case "latestNavDate":
			return funds[i].LatestNavDate.Before(funds[j].LatestNavDate)
		case "latestNav":
			return funds[i].LatestNav < funds[j].LatestNav
		default:
			return funds[i].SchemeName < funds[j].SchemeName
		}
	}
	if desc {
		sort.SliceStable(funds, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(funds, less)
	}
}

func (s *Store) Stats(ctx context.Context) (*models.FundsStats, error) {
	total, err := s.db.Count(&models.FundRecord{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count funds: %w", err)
	}
	active, err := s.db.Count(&models.FundRecord{}, badgerhold.Where("IsActive").Eq(true).Index("IsActive"))
	if err != nil {
		return nil, fmt.Errorf("failed to count active funds: %w", err)
	}

	stats := &models.FundsStats{
		TotalFunds:    int(total),
		ActiveFunds:   int(active),
		InactiveFunds: int(total - active),
	}
	if total > 0 {
		stats.ActivePercentage = float64(active) / float64(total) * 100
	}

	if job, err := s.LastSyncJob(ctx); err == nil && job != nil && job.Status == models.SyncStatusCompleted {
		completed := job.CompletedAt
		stats.LastSyncedAt = &completed
	}

	return stats, nil
}

func (s *Store) SaveSyncJob(_ context.Context, job *models.SyncJob) error {
	if err := s.db.Upsert(job.ID, job); err != nil {
		return fmt.Errorf("failed to save sync job %s: %w", job.ID, err)
	}
	return nil
}

// LastSyncJob returns the most recently started sync job, nil when none exist.
func (s *Store) LastSyncJob(_ context.Context) (*models.SyncJob, error) {
	var jobs []models.SyncJob
	if err := s.db.Find(&jobs, nil); err != nil {
		return nil, fmt.Errorf("failed to list sync jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
	latest := jobs[0]
	return &latest, nil
}

// PruneSyncJobs keeps only the most recent keep jobs.
func (s *Store) PruneSyncJobs(keep int) (int, error) {
	var jobs []models.SyncJob
	if err := s.db.Find(&jobs, nil); err != nil {
		return 0, fmt.Errorf("failed to list sync jobs: %w", err)
	}
	if len(jobs) <= keep {
		return 0, nil
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
	pruned := 0
	for _, job := range jobs[keep:] {
		if err := s.db.Delete(job.ID, models.SyncJob{}); err == nil {
			pruned++
		}
	}
	return pruned, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check
var _ interfaces.FundStore = (*Store)(nil)
