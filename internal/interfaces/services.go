package interfaces

import (
	"context"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// SchemeService retrieves scheme data through the cache-aside layer.
type SchemeService interface {
	// GetScheme returns the cached or freshly fetched provider payload.
	GetScheme(ctx context.Context, code string) (*models.Scheme, error)

	// GetSeries returns the parsed ascending NAV series for a scheme.
	GetSeries(ctx context.Context, code string) (*models.Scheme, navseries.Series, error)

	// ListSchemes pages the provider directory with optional search and
	// active-only (ISIN present) filtering.
	ListSchemes(ctx context.Context, search string, page, limit int, activeOnly bool) (*models.SchemeListPage, error)

	// SchemeDetail shapes the scheme endpoint payload: meta plus parsed
	// NAV rows, newest first.
	SchemeDetail(ctx context.Context, code string) (*models.SchemeDetail, error)

	// RenderNavChart renders the scheme NAV history as a PNG line chart.
	RenderNavChart(ctx context.Context, code string, from, to string) ([]byte, error)

	// Invalidate drops a scheme from the cache.
	Invalidate(ctx context.Context, code string) error
}

// CalculatorService runs the investment simulations over a scheme's NAV
// history.
type CalculatorService interface {
	Lumpsum(ctx context.Context, code string, req models.LumpsumRequest) (*models.LumpsumResult, error)
	SIP(ctx context.Context, code string, req models.SIPRequest) (*models.SIPResult, error)
	StepUpSIP(ctx context.Context, code string, req models.StepUpSIPRequest) (*models.StepUpSIPResult, error)
	SWP(ctx context.Context, code string, req models.SWPRequest) (*models.SWPResult, error)
	StepUpSWP(ctx context.Context, code string, req models.StepUpSWPRequest) (*models.StepUpSWPResult, error)
	SimpleReturn(ctx context.Context, code string, from, to string) (*models.SimpleReturnResult, error)
	PeriodReturns(ctx context.Context, code string, req models.PeriodReturnsRequest) (*models.PeriodReturnsResult, error)
	RollingReturns(ctx context.Context, code string, req models.RollingReturnsRequest) (*models.RollingReturnsResult, error)
	RollingSeries(ctx context.Context, code string, req models.RollingSeriesRequest) (*models.RollingSeriesResult, error)
}

// FundsService maintains and serves the fund activity directory.
type FundsService interface {
	ActiveFunds(ctx context.Context, query models.FundsQuery) (*models.FundsPage, error)
	Stats(ctx context.Context) (*models.FundsStats, error)

	// Sync walks the provider directory and rebuilds activity status.
	// Returns the completed job record; a no-op error when a sync is
	// already running.
	Sync(ctx context.Context) (*models.SyncJob, error)

	// LastSync returns the most recent sync job record, nil when none.
	LastSync(ctx context.Context) (*models.SyncJob, error)

	// SyncRunning reports whether a sync is currently in flight.
	SyncRunning() bool
}
