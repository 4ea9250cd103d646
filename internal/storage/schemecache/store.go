// Package schemecache implements the TTL scheme cache using BadgerHold.
// Entries older than the TTL behave as misses so callers always re-fetch
// stale NAV histories.
package schemecache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
)

// listKey is the fixed key for the cached scheme directory list.
const listKey = "__scheme_list__"

// cachedScheme is one stored provider payload with its storage timestamp.
type cachedScheme struct {
	Code     string `badgerhold:"key"`
	Scheme   models.Scheme
	StoredAt time.Time
}

// cachedList is the stored scheme directory list.
type cachedList struct {
	Key      string `badgerhold:"key"`
	Entries  []models.SchemeListEntry
	StoredAt time.Time
}

// Store implements interfaces.SchemeCache using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	ttl    time.Duration
	logger *common.Logger
}

// NewStore opens a scheme cache at the given directory path.
func NewStore(logger *common.Logger, path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open scheme cache at %s: %w", path, err)
	}
	if ttl <= 0 {
		ttl = common.FreshnessScheme
	}
	logger.Info().Str("path", path).Dur("ttl", ttl).Msg("Scheme cache opened")
	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

func (s *Store) Get(_ context.Context, code string) (*models.Scheme, bool, error) {
	var rec cachedScheme
	if err := s.db.Get(code, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached scheme %s: %w", code, err)
	}
	if !common.IsFresh(rec.StoredAt, s.ttl) {
		s.logger.Debug().Str("code", code).Time("stored_at", rec.StoredAt).Msg("Cached scheme stale")
		return nil, false, nil
	}
	return &rec.Scheme, true, nil
}

func (s *Store) Set(_ context.Context, code string, scheme *models.Scheme) error {
	rec := cachedScheme{
		Code:     code,
		Scheme:   *scheme,
		StoredAt: time.Now(),
	}
	if err := s.db.Upsert(code, &rec); err != nil {
		return fmt.Errorf("failed to cache scheme %s: %w", code, err)
	}
	return nil
}

func (s *Store) GetList(_ context.Context) ([]models.SchemeListEntry, bool, error) {
	var rec cachedList
	if err := s.db.Get(listKey, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached scheme list: %w", err)
	}
	if !common.IsFresh(rec.StoredAt, common.FreshnessSchemeList) {
		return nil, false, nil
	}
	return rec.Entries, true, nil
}

func (s *Store) SetList(_ context.Context, entries []models.SchemeListEntry) error {
	rec := cachedList{
		Key:      listKey,
		Entries:  entries,
		StoredAt: time.Now(),
	}
	if err := s.db.Upsert(listKey, &rec); err != nil {
		return fmt.Errorf("failed to cache scheme list: %w", err)
	}
	return nil
}

func (s *Store) Invalidate(_ context.Context, code string) error {
	if err := s.db.Delete(code, cachedScheme{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to invalidate scheme %s: %w", code, err)
	}
	return nil
}

// Purge removes all stale entries and returns the number removed.
func (s *Store) Purge(_ context.Context) (int, error) {
	var all []cachedScheme
	if err := s.db.Find(&all, nil); err != nil {
		return 0, fmt.Errorf("failed to scan scheme cache: %w", err)
	}
	count := 0
	for _, rec := range all {
		if common.IsFresh(rec.StoredAt, s.ttl) {
			continue
		}
		if err := s.db.Delete(rec.Code, cachedScheme{}); err == nil {
			count++
		}
	}
	if count > 0 {
		s.logger.Info().Int("count", count).Msg("Stale cache entries purged")
	}
	return count, nil
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check
var _ interfaces.SchemeCache = (*Store)(nil)
