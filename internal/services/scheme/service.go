// Package scheme provides cache-aside access to provider scheme data and
// the directory listing endpoints built on it.
package scheme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service implements interfaces.SchemeService.
type Service struct {
	client interfaces.MFAPIClient
	cache  interfaces.SchemeCache
	logger *common.Logger

	// inflight dedupes concurrent fetches of the same scheme so a cache
	// miss hits the provider once.
	mu       sync.Mutex
	inflight map[string]*fetchCall
}

type fetchCall struct {
	done   chan struct{}
	scheme *models.Scheme
	err    error
}

// NewService creates a new scheme service.
func NewService(client interfaces.MFAPIClient, cache interfaces.SchemeCache, logger *common.Logger) *Service {
	return &Service{
		client:   client,
		cache:    cache,
		logger:   logger,
		inflight: make(map[string]*fetchCall),
	}
}

// GetScheme returns the provider payload for a scheme, serving from the TTL
// cache when fresh.
func (s *Service) GetScheme(ctx context.Context, code string) (*models.Scheme, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.NewValidationError("scheme code is required")
	}

	if scheme, hit, err := s.cache.Get(ctx, code); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("Scheme cache read failed")
	} else if hit {
		return scheme, nil
	}

	s.mu.Lock()
	if call, ok := s.inflight[code]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.scheme, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &fetchCall{done: make(chan struct{})}
	s.inflight[code] = call
	s.mu.Unlock()

	call.scheme, call.err = s.fetch(ctx, code)
	close(call.done)

	s.mu.Lock()
	delete(s.inflight, code)
	s.mu.Unlock()

	return call.scheme, call.err
}

func (s *Service) fetch(ctx context.Context, code string) (*models.Scheme, error) {
	scheme, err := s.client.GetScheme(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, code, scheme); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("Scheme cache write failed")
	}
	s.logger.Info().Str("code", code).Int("rows", len(scheme.Data)).Msg("Scheme fetched from provider")
	return scheme, nil
}

// GetSeries returns the scheme payload and its parsed ascending NAV series.
func (s *Service) GetSeries(ctx context.Context, code string) (*models.Scheme, navseries.Series, error) {
	scheme, err := s.GetScheme(ctx, code)
	if err != nil {
		return nil, navseries.Series{}, err
	}
	series := navseries.Parse(scheme.Data)
	if series.Len() == 0 {
		return nil, navseries.Series{}, models.NewDataUnavailableError("no NAV data available for scheme %s", code)
	}
	return scheme, series, nil
}

// ListSchemes pages the provider directory. activeOnly keeps entries that
// carry an ISIN, a cheap proxy for schemes still open for investment.
func (s *Service) ListSchemes(ctx context.Context, search string, page, limit int, activeOnly bool) (*models.SchemeListPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := s.listEntries(ctx)
	if err != nil {
		return nil, err
	}

	filtered := entries[:0:0]
	search = strings.ToLower(strings.TrimSpace(search))
	for _, e := range entries {
		if activeOnly && e.ISINGrowth == "" && e.ISINDivReinvestment == "" {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.SchemeName), search) {
			continue
		}
		filtered = append(filtered, e)
	}

	total := len(filtered)
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
		data = []models.SchemeListEntry{}
	}

	return &models.SchemeListPage{
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    end < total,
		Data:       data,
		ActiveOnly: activeOnly,
	}, nil
}

func (s *Service) listEntries(ctx context.Context) ([]models.SchemeListEntry, error) {
	if entries, hit, err := s.cache.GetList(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Scheme list cache read failed")
	} else if hit {
		return entries, nil
	}

	entries, err := s.client.ListSchemes(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetList(ctx, entries); err != nil {
		s.logger.Warn().Err(err).Msg("Scheme list cache write failed")
	}
	s.logger.Info().Int("schemes", len(entries)).Msg("Scheme directory fetched from provider")
	return entries, nil
}

// SchemeDetail shapes the scheme endpoint payload: meta plus the NAV rows
// that parsed cleanly, newest first.
func (s *Service) SchemeDetail(ctx context.Context, code string) (*models.SchemeDetail, error) {
	scheme, series, err := s.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}

	points := series.Points()
	rows := make([]models.NavRow, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		rows = append(rows, models.NavRow{
			Date: points[i].Date.Format(navseries.DateDisplay),
			Nav:  fmt.Sprintf("%.5f", points[i].Nav),
		})
	}

	return &models.SchemeDetail{
		Meta:  scheme.Meta,
		Total: len(rows),
		Data:  rows,
	}, nil
}

// Invalidate drops a scheme from the cache.
func (s *Service) Invalidate(ctx context.Context, code string) error {
	return s.cache.Invalidate(ctx, code)
}

// Compile-time check
var _ interfaces.SchemeService = (*Service)(nil)
