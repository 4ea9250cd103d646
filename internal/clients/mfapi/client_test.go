package mfapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
)

func TestGetScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mf/120503" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {
				"fund_house": "Axis Mutual Fund",
				"scheme_type": "Open Ended Schemes",
				"scheme_category": "Equity Scheme - Large Cap Fund",
				"scheme_code": 120503,
				"scheme_name": "Axis Bluechip Fund - Direct Plan - Growth"
			},
			"data": [
				{"date": "30-08-2024", "nav": "58.12000"},
				{"date": "29-08-2024", "nav": "57.98000"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	scheme, err := client.GetScheme(context.Background(), "120503")
	if err != nil {
		t.Fatalf("GetScheme failed: %v", err)
	}

	if scheme.Meta.Code() != 120503 {
		t.Errorf("expected scheme code 120503, got %d", scheme.Meta.Code())
	}
	if len(scheme.Data) != 2 {
		t.Errorf("expected 2 NAV rows, got %d", len(scheme.Data))
	}
	if scheme.Data[0].Date != "30-08-2024" {
		t.Errorf("expected newest row first, got %s", scheme.Data[0].Date)
	}
	if scheme.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestGetSchemeStringCode(t *testing.T) {
	// Some provider responses carry scheme_code as a string.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {"scheme_code": "120503", "scheme_name": "Test Fund"}, "data": [{"date": "30-08-2024", "nav": "10.0"}]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	scheme, err := client.GetScheme(context.Background(), "120503")
	if err != nil {
		t.Fatalf("GetScheme failed: %v", err)
	}
	if scheme.Meta.Code() != 120503 {
		t.Errorf("expected scheme code 120503, got %d", scheme.Meta.Code())
	}
}

func TestGetSchemeNotFound(t *testing.T) {
	// Unknown codes come back as 200 with an empty object.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.GetScheme(context.Background(), "999999")
	if err == nil {
		t.Fatal("expected error for unknown scheme")
	}
	var unavailable *models.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("expected DataUnavailableError, got %T", err)
	}
}

func TestGetSchemeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.GetScheme(context.Background(), "120503")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var upstream *models.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upstream.Timeout {
		t.Error("a 500 response is not a timeout")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError as the cause, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestGetSchemeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))

	_, err := client.GetScheme(context.Background(), "120503")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var upstream *models.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if !upstream.Timeout {
		t.Error("expected Timeout to be true")
	}
}

func TestListSchemes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mf" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"schemeCode": 100027, "schemeName": "Grindlays Super Saver Income Fund"},
			{"schemeCode": 120503, "schemeName": "Axis Bluechip Fund - Direct Plan - Growth", "isinGrowth": "INF846K01EW2"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	entries, err := client.ListSchemes(context.Background())
	if err != nil {
		t.Fatalf("ListSchemes failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Code() != 120503 {
		t.Errorf("expected scheme code 120503, got %d", entries[1].Code())
	}
	if entries[1].ISINGrowth != "INF846K01EW2" {
		t.Errorf("unexpected ISIN: %s", entries[1].ISINGrowth)
	}
}
