package funds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// fakeClient serves a small directory where scheme 1 publishes fresh NAVs
// and scheme 2 stopped publishing years ago.
type fakeClient struct {
	delay time.Duration
}

func (f *fakeClient) ListSchemes(context.Context) ([]models.SchemeListEntry, error) {
	entries := make([]models.SchemeListEntry, 0, 2)
	for _, e := range []struct {
		code int64
		name string
	}{
		{1, "Fresh Equity Fund - Direct Plan - Growth"},
		{2, "Closed Debt Fund"},
	} {
		var entry models.SchemeListEntry
		data := fmt.Sprintf(`{"schemeCode": %d, "schemeName": %q}`, e.code, e.name)
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeClient) GetScheme(_ context.Context, code string) (*models.Scheme, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	switch code {
	case "1":
		return &models.Scheme{
			Meta: models.SchemeMeta{SchemeName: "Fresh Equity Fund - Direct Plan - Growth", FundHouse: "Fresh AMC"},
			Data: []models.NavRow{{Date: time.Now().Format(navseries.DateDisplay), Nav: "42.50000"}},
		}, nil
	case "2":
		return &models.Scheme{
			Meta: models.SchemeMeta{SchemeName: "Closed Debt Fund"},
			Data: []models.NavRow{{Date: "01-01-2015", Nav: "18.00000"}},
		}, nil
	}
	return nil, models.NewDataUnavailableError("scheme %s not found", code)
}

// memStore is a minimal in-memory FundStore.
type memStore struct {
	mu               sync.Mutex
	funds            map[int64]models.FundRecord
	jobs             []models.SyncJob
	failMarkInactive bool
}

func newMemStore() *memStore {
	return &memStore{funds: make(map[int64]models.FundRecord)}
}

func (s *memStore) Get(_ context.Context, code int64) (*models.FundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.funds[code]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *memStore) Upsert(_ context.Context, record *models.FundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[record.SchemeCode] = *record
	return nil
}

func (s *memStore) MarkAllInactive(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMarkInactive {
		return 0, fmt.Errorf("store unavailable")
	}
	count := 0
	for code, rec := range s.funds {
		if rec.IsActive {
			rec.IsActive = false
			s.funds[code] = rec
			count++
		}
	}
	return count, nil
}

func (s *memStore) Query(_ context.Context, query models.FundsQuery) (*models.FundsPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var data []models.FundRecord
	for _, rec := range s.funds {
		if rec.IsActive {
			data = append(data, rec)
		}
	}
	return &models.FundsPage{Total: len(data), Page: query.Page, Limit: query.Limit, Data: data}, nil
}

func (s *memStore) Stats(_ context.Context) (*models.FundsStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.FundsStats{TotalFunds: len(s.funds)}
	for _, rec := range s.funds {
		if rec.IsActive {
			stats.ActiveFunds++
		}
	}
	stats.InactiveFunds = stats.TotalFunds - stats.ActiveFunds
	return stats, nil
}

func (s *memStore) SaveSyncJob(_ context.Context, job *models.SyncJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == job.ID {
			s.jobs[i] = *job
			return nil
		}
	}
	s.jobs = append(s.jobs, *job)
	return nil
}

func (s *memStore) LastSyncJob(_ context.Context) (*models.SyncJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return nil, nil
	}
	job := s.jobs[len(s.jobs)-1]
	return &job, nil
}

func newTestService(client *fakeClient, store *memStore) *Service {
	return NewService(client, store, common.NewSilentLogger(), common.SchedulerConfig{BatchSize: 10, Workers: 2})
}

func TestSyncBuildsDirectory(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&fakeClient{}, store)
	ctx := context.Background()

	job, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if job.Status != models.SyncStatusCompleted {
		t.Errorf("expected completed status, got %s", job.Status)
	}
	if job.TotalChecked != 2 {
		t.Errorf("expected 2 checked, got %d", job.TotalChecked)
	}
	if job.ActiveCount != 1 || job.InactiveCount != 1 {
		t.Errorf("unexpected counts: active %d, inactive %d", job.ActiveCount, job.InactiveCount)
	}

	rec, _ := store.Get(ctx, 1)
	if rec == nil || !rec.IsActive {
		t.Fatal("expected scheme 1 active")
	}
	if rec.Category != "equity" {
		t.Errorf("expected equity category, got %s", rec.Category)
	}
	if rec.LatestNav != 42.5 {
		t.Errorf("unexpected latest NAV: %v", rec.LatestNav)
	}

	// The stale fund never gets a record
	if stale, _ := store.Get(ctx, 2); stale != nil {
		t.Error("expected no record for the stale fund")
	}

	last, _ := svc.LastSync(ctx)
	if last == nil || last.ID != job.ID {
		t.Error("expected persisted job record")
	}
}

func TestSyncStoreFailureMarksJobFailed(t *testing.T) {
	store := newMemStore()
	store.failMarkInactive = true
	svc := newTestService(&fakeClient{}, store)
	ctx := context.Background()

	if _, err := svc.Sync(ctx); err == nil {
		t.Fatal("expected sync to fail")
	}

	// The persisted job must not stay "running" after the sync returns.
	last, err := svc.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if last == nil {
		t.Fatal("expected a persisted job record")
	}
	if last.Status != models.SyncStatusFailed {
		t.Errorf("expected failed status, got %s", last.Status)
	}
	if last.Error == "" {
		t.Error("expected job error to be recorded")
	}
	if last.CompletedAt.IsZero() {
		t.Error("expected completion time to be set")
	}
}

func TestSyncRejectsOverlap(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&fakeClient{delay: 50 * time.Millisecond}, store)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Sync(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var inProgress int
	for err := range errs {
		if err == ErrSyncInProgress {
			inProgress++
		} else if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if inProgress != 1 {
		t.Errorf("expected exactly 1 overlap rejection, got %d", inProgress)
	}
	if svc.SyncRunning() {
		t.Error("expected running flag cleared after sync")
	}
}

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"UTI Nifty 50 Index Fund", "index"},
		{"ICICI Prudential Balanced Advantage Fund", "hybrid"},
		{"HDFC Corporate Bond Fund", "debt"},
		{"Axis Bluechip Fund - Direct Plan - Growth", "equity"},
		{"Some Unclassifiable Scheme", "other"},
	}
	for _, tc := range cases {
		if got := ClassifyCategory(tc.name); got != tc.want {
			t.Errorf("ClassifyCategory(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
