// Package common provides shared test infrastructure: an in-process
// server wired against a fake NAV provider and throwaway storage.
package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/navcalc/internal/app"
	"github.com/bobmcallan/navcalc/internal/clients/mfapi"
	appcommon "github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/server"
	"github.com/bobmcallan/navcalc/internal/services/calculator"
	"github.com/bobmcallan/navcalc/internal/services/funds"
	"github.com/bobmcallan/navcalc/internal/services/scheme"
	"github.com/bobmcallan/navcalc/internal/storage"
)

// TestSchemeCode is the fixture scheme served by the fake provider.
const TestSchemeCode = "120503"

// BrokenSchemeCode makes the fake provider answer with HTTP 503.
const BrokenSchemeCode = "500503"

// Env is an isolated in-process test environment: the full service stack
// over temp storage, fronted by httptest servers for both the API and the
// upstream NAV provider.
type Env struct {
	t        *testing.T
	app      *app.App
	API      *httptest.Server
	Provider *httptest.Server
}

// fixtureNavRows builds a monthly NAV history from Jan 2020 through Jan
// 2023, newest first. The endpoints are pinned so return math is exact:
// 10.0 on 2020-01-01 growing to 13.31 on 2023-01-01 (10% a year).
func fixtureNavRows() []map[string]string {
	var rows []map[string]string
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= 36; i++ {
		d := start.AddDate(0, i, 0)
		nav := 10.0 * math.Pow(1.1, float64(i)/12.0)
		rows = append(rows, map[string]string{
			"date": d.Format("02-01-2006"),
			"nav":  fmt.Sprintf("%.5f", nav),
		})
	}
	// Newest first, as the provider publishes
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

// newProvider builds the fake NAV provider.
func newProvider() *httptest.Server {
	rows := fixtureNavRows()

	mux := http.NewServeMux()
	mux.HandleFunc("/mf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"schemeCode": 120503, "schemeName": "Axis Bluechip Fund - Direct Plan - Growth", "isinGrowth": "INF846K01EW2"},
			{"schemeCode": 100001, "schemeName": "Dormant Fund - Regular Plan"},
			{"schemeCode": 200001, "schemeName": "Live Liquid Fund - Direct Plan"},
		})
	})
	mux.HandleFunc("/mf/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/mf/")
		w.Header().Set("Content-Type", "application/json")
		switch code {
		case TestSchemeCode:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"meta": map[string]interface{}{
					"fund_house":      "Axis Mutual Fund",
					"scheme_type":     "Open Ended",
					"scheme_code":     120503,
					"scheme_name":     "Axis Bluechip Fund - Direct Plan - Growth",
					"isin_growth":     "INF846K01EW2",
					"scheme_category": "Equity Scheme",
				},
				"data":   rows,
				"status": "SUCCESS",
			})
		case "100001":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"meta": map[string]interface{}{
					"scheme_code": 100001,
					"scheme_name": "Dormant Fund - Regular Plan",
				},
				"data": []map[string]string{{"date": "01-01-2015", "nav": "22.10000"}},
			})
		case "200001":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"meta": map[string]interface{}{
					"fund_house":  "Live AMC",
					"scheme_code": 200001,
					"scheme_name": "Live Liquid Fund - Direct Plan",
				},
				"data": []map[string]string{{"date": time.Now().Format("02-01-2006"), "nav": "1045.33120"}},
			})
		case BrokenSchemeCode:
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			// Unknown codes come back as an empty object with HTTP 200
			w.Write([]byte("{}"))
		}
	})
	return httptest.NewServer(mux)
}

// NewEnv wires the full application against a fake provider and temp
// storage directories.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	provider := newProvider()

	config := appcommon.NewDefaultConfig()
	config.Storage.Cache.Path = t.TempDir()
	config.Storage.Funds.Path = t.TempDir()
	config.Clients.MFAPI.BaseURL = provider.URL
	config.Scheduler.SyncEnabled = false
	config.Scheduler.Workers = 2

	logger := appcommon.NewSilentLogger()

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		provider.Close()
		t.Fatalf("failed to initialize storage: %v", err)
	}

	client := mfapi.NewClient(
		mfapi.WithBaseURL(provider.URL),
		mfapi.WithLogger(logger),
	)

	schemeService := scheme.NewService(client, storageManager.SchemeCache(), logger)
	calculatorService := calculator.NewService(schemeService, logger)
	fundsService := funds.NewService(client, storageManager.FundStore(), logger, config.Scheduler)

	a := &app.App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		MFAPIClient:       client,
		SchemeService:     schemeService,
		CalculatorService: calculatorService,
		FundsService:      fundsService,
		StartupTime:       time.Now(),
	}

	api := httptest.NewServer(server.NewServer(a).Handler())

	return &Env{t: t, app: a, API: api, Provider: provider}
}

// Cleanup tears down the servers and storage.
func (e *Env) Cleanup() {
	e.API.Close()
	e.Provider.Close()
	e.app.Close()
}

// HTTPGet issues a GET against the API server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.API.URL + path)
}

// HTTPPost issues a POST with a JSON body against the API server.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	return http.Post(e.API.URL+path, "application/json", &buf)
}

// NewRequest builds a request against the API server with a JSON body.
func (e *Env) NewRequest(method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, e.API.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Do executes a request built with NewRequest.
func (e *Env) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

// DecodeBody decodes a JSON response body into v and closes it.
func DecodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
