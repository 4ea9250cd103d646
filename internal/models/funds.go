package models

import "time"

// FundRecord is one entry of the persistent fund directory. A fund is
// active when its latest published NAV falls within the activity window.
type FundRecord struct {
	SchemeCode    int64     `json:"schemeCode" badgerhold:"key"`
	SchemeName    string    `json:"schemeName"`
	FundHouse     string    `json:"fundHouse"`
	Category      string    `json:"category"`
	ISINGrowth    string    `json:"isinGrowth,omitempty"`
	LatestNavDate time.Time `json:"latestNavDate"`
	LatestNav     float64   `json:"latestNav"`
	IsActive      bool      `json:"isActive" badgerhold:"index"`
	LastChecked   time.Time `json:"lastChecked"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// FundsQuery selects, filters and pages the fund directory.
type FundsQuery struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	SortBy    string
	SortOrder int // 1 ascending, -1 descending
}

// FundsPage is one page of directory results.
type FundsPage struct {
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	HasMore    bool         `json:"hasMore"`
	TotalPages int          `json:"totalPages"`
	Data       []FundRecord `json:"data"`
}

// FundsStats summarizes the directory.
type FundsStats struct {
	TotalFunds       int        `json:"totalFunds"`
	ActiveFunds      int        `json:"activeFunds"`
	InactiveFunds    int        `json:"inactiveFunds"`
	ActivePercentage float64    `json:"activePercentage"`
	LastSyncedAt     *time.Time `json:"lastSyncedAt"`
}

// Sync job status constants.
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncJob records one directory sync run.
type SyncJob struct {
	ID            string    `json:"id" badgerhold:"key"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
	Status        string    `json:"status"`
	TotalChecked  int       `json:"total_checked"`
	ActiveCount   int       `json:"active_count"`
	InactiveCount int       `json:"inactive_count"`
	Error         string    `json:"error,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
}
