package calculator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// fakeSchemes serves a fixed NAV history for any scheme code.
type fakeSchemes struct {
	rows []models.NavRow
}

func (f *fakeSchemes) GetScheme(context.Context, string) (*models.Scheme, error) {
	return &models.Scheme{Data: f.rows}, nil
}

func (f *fakeSchemes) GetSeries(context.Context, string) (*models.Scheme, navseries.Series, error) {
	series := navseries.Parse(f.rows)
	if series.Len() == 0 {
		return nil, navseries.Series{}, models.NewDataUnavailableError("no NAV data")
	}
	return &models.Scheme{Data: f.rows}, series, nil
}

func (f *fakeSchemes) ListSchemes(context.Context, string, int, int, bool) (*models.SchemeListPage, error) {
	return &models.SchemeListPage{}, nil
}

func (f *fakeSchemes) SchemeDetail(context.Context, string) (*models.SchemeDetail, error) {
	return &models.SchemeDetail{}, nil
}

func (f *fakeSchemes) RenderNavChart(context.Context, string, string, string) ([]byte, error) {
	return nil, nil
}

func (f *fakeSchemes) Invalidate(context.Context, string) error { return nil }

func newTestService(rows []models.NavRow) *Service {
	return NewService(&fakeSchemes{rows: rows}, common.NewSilentLogger())
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Monthly NAV rows, newest first, all at the same value.
func flatMonthlyRows(nav string) []models.NavRow {
	return []models.NavRow{
		{Date: "01-12-2020", Nav: nav},
		{Date: "01-11-2020", Nav: nav},
		{Date: "01-10-2020", Nav: nav},
		{Date: "01-09-2020", Nav: nav},
		{Date: "01-08-2020", Nav: nav},
		{Date: "01-07-2020", Nav: nav},
		{Date: "01-06-2020", Nav: nav},
		{Date: "01-05-2020", Nav: nav},
		{Date: "01-04-2020", Nav: nav},
		{Date: "01-03-2020", Nav: nav},
		{Date: "01-02-2020", Nav: nav},
		{Date: "01-01-2020", Nav: nav},
	}
}

// --- Lumpsum ---

func TestLumpsumThreeYearGrowth(t *testing.T) {
	// 10000 at NAV 10 growing to 13.31 over 3 years is a 10% CAGR
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2023", Nav: "13.31000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.Lumpsum(context.Background(), "120503", models.LumpsumRequest{
		Investment: 10000,
		From:       "2020-01-01",
		To:         "2023-01-01",
	})
	if err != nil {
		t.Fatalf("Lumpsum failed: %v", err)
	}

	if res.UnitsPurchased != 1000 {
		t.Errorf("expected 1000 units, got %v", res.UnitsPurchased)
	}
	if res.CurrentValue != 13310 {
		t.Errorf("expected current value 13310, got %v", res.CurrentValue)
	}
	if res.TotalGainLoss != 3310 {
		t.Errorf("expected gain 3310, got %v", res.TotalGainLoss)
	}
	if res.SimpleReturn != 33.1 {
		t.Errorf("expected simple return 33.1, got %v", res.SimpleReturn)
	}
	if res.AnnualizedReturn == nil || !approxEqual(*res.AnnualizedReturn, 10.0, 0.01) {
		t.Errorf("expected annualized return ~10%%, got %v", res.AnnualizedReturn)
	}
	if res.StartDate != "01-01-2020" || res.EndDate != "01-01-2023" {
		t.Errorf("unexpected dates: %s to %s", res.StartDate, res.EndDate)
	}
}

func TestLumpsumSameDayHasNilAnnualized(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.Lumpsum(context.Background(), "120503", models.LumpsumRequest{
		Investment: 5000,
		From:       "2020-06-01",
		To:         "2020-06-01",
	})
	if err != nil {
		t.Fatalf("Lumpsum failed: %v", err)
	}
	// Zero days held: no annualization is possible
	if res.AnnualizedReturn != nil {
		t.Errorf("expected nil annualized return, got %v", *res.AnnualizedReturn)
	}
	if res.SimpleReturn != 0 {
		t.Errorf("expected zero simple return, got %v", res.SimpleReturn)
	}
}

func TestLumpsumValidation(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))
	ctx := context.Background()

	cases := []models.LumpsumRequest{
		{Investment: 0, From: "2020-01-01", To: "2020-06-01"},
		{Investment: -5, From: "2020-01-01", To: "2020-06-01"},
		{Investment: 100, From: "", To: "2020-06-01"},
		{Investment: 100, From: "2020-01-01", To: "not-a-date"},
		{Investment: 100, From: "2020-06-01", To: "2020-01-01"},
	}
	for _, req := range cases {
		_, err := svc.Lumpsum(ctx, "120503", req)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError for %+v, got %v", req, err)
		}
	}
}

func TestLumpsumOutsideHistory(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	_, err := svc.Lumpsum(context.Background(), "120503", models.LumpsumRequest{
		Investment: 100,
		From:       "2019-01-01",
		To:         "2020-06-01",
	})
	var rErr *models.RangeError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if rErr.EarliestNAVDate != "2020-01-01" || rErr.LatestNAVDate != "2020-12-01" {
		t.Errorf("unexpected bounds: %s / %s", rErr.EarliestNAVDate, rErr.LatestNAVDate)
	}
	if rErr.RequestedFrom != "2019-01-01" || rErr.RequestedTo != "2020-06-01" {
		t.Errorf("unexpected requested dates: %s / %s", rErr.RequestedFrom, rErr.RequestedTo)
	}
}

// --- SIP ---

func TestSIPFlatNav(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.SIP(context.Background(), "120503", models.SIPRequest{
		Amount:    1000,
		Frequency: "monthly",
		From:      "2020-01-01",
		To:        "2020-06-01",
	})
	if err != nil {
		t.Fatalf("SIP failed: %v", err)
	}

	// 6 installments of 1000 at NAV 10
	if res.Meta.Installments != 6 {
		t.Errorf("expected 6 installments, got %d", res.Meta.Installments)
	}
	if res.Summary.TotalInvested != 6000 {
		t.Errorf("expected 6000 invested, got %v", res.Summary.TotalInvested)
	}
	if res.Summary.TotalUnits != 600 {
		t.Errorf("expected 600 units, got %v", res.Summary.TotalUnits)
	}
	if res.Summary.CurrentValue != 6000 {
		t.Errorf("expected value 6000, got %v", res.Summary.CurrentValue)
	}
	if res.Summary.TotalGainLoss != 0 {
		t.Errorf("expected zero gain, got %v", res.Summary.TotalGainLoss)
	}
	if res.Meta.FirstInstallmentDate != "01-01-2020" {
		t.Errorf("unexpected first installment date: %s", res.Meta.FirstInstallmentDate)
	}
	if res.Meta.LastValuationDate != "01-06-2020" {
		t.Errorf("unexpected last valuation date: %s", res.Meta.LastValuationDate)
	}
}

func TestSIPQuarterly(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.SIP(context.Background(), "120503", models.SIPRequest{
		Amount:    1000,
		Frequency: "quarterly",
		From:      "2020-01-01",
		To:        "2020-12-01",
	})
	if err != nil {
		t.Fatalf("SIP failed: %v", err)
	}
	// Jan, Apr, Jul, Oct
	if res.Meta.Installments != 4 {
		t.Errorf("expected 4 installments, got %d", res.Meta.Installments)
	}
}

func TestSIPInvalidFrequency(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))
	_, err := svc.SIP(context.Background(), "120503", models.SIPRequest{
		Amount:    1000,
		Frequency: "weekly",
		From:      "2020-01-01",
		To:        "2020-06-01",
	})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// --- Step-up SIP ---

func TestStepUpSIPPercentage(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.StepUpSIP(context.Background(), "120503", models.StepUpSIPRequest{
		InitialInvestment: 1000,
		From:              "2020-01-01",
		To:                "2020-03-01",
		StepUpType:        "percentage",
		StepUpValue:       10,
	})
	if err != nil {
		t.Fatalf("StepUpSIP failed: %v", err)
	}

	// The step-up applies after each executed installment from the
	// second onward: 1000, 1000, 1100 invested; next would be 1210.
	if res.TotalSIPs != 3 {
		t.Errorf("expected 3 installments, got %d", res.TotalSIPs)
	}
	if res.TotalInvested != 3100 {
		t.Errorf("expected 3100 invested, got %v", res.TotalInvested)
	}
	if res.TotalUnits != 310 {
		t.Errorf("expected 310 units, got %v", res.TotalUnits)
	}
	if res.StepUpAppliedTimes != 2 {
		t.Errorf("expected 2 step-ups, got %d", res.StepUpAppliedTimes)
	}
	if res.LastSIPAmount != 1210 {
		t.Errorf("expected last amount 1210, got %v", res.LastSIPAmount)
	}
	if res.AvailableNAVRange.From != "2020-01-01" || res.AvailableNAVRange.To != "2020-12-01" {
		t.Errorf("unexpected NAV range: %+v", res.AvailableNAVRange)
	}
}

func TestStepUpSIPAmount(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.StepUpSIP(context.Background(), "120503", models.StepUpSIPRequest{
		InitialInvestment: 1000,
		From:              "2020-01-01",
		To:                "2020-03-01",
		StepUpType:        "amount",
		StepUpValue:       500,
	})
	if err != nil {
		t.Fatalf("StepUpSIP failed: %v", err)
	}
	// 1000, 1000, 1500
	if res.TotalInvested != 3500 {
		t.Errorf("expected 3500 invested, got %v", res.TotalInvested)
	}
	if res.LastSIPAmount != 2000 {
		t.Errorf("expected last amount 2000, got %v", res.LastSIPAmount)
	}
}

// --- SWP ---

func TestSWPExhaustsCorpus(t *testing.T) {
	// 1000 buys 100 units at NAV 10; 200/month sells 20 units each time,
	// exhausting the corpus after the 5th withdrawal.
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.SWP(context.Background(), "120503", models.SWPRequest{
		InitialInvestment: 1000,
		Amount:            200,
		Frequency:         "monthly",
		From:              "2020-01-01",
		To:                "2020-12-01",
	})
	if err != nil {
		t.Fatalf("SWP failed: %v", err)
	}

	if res.TotalWithdrawn != 1000 {
		t.Errorf("expected 1000 withdrawn, got %v", res.TotalWithdrawn)
	}
	if res.RemainingUnits != 0 {
		t.Errorf("expected 0 remaining units, got %v", res.RemainingUnits)
	}
	if res.CurrentValue != 0 {
		t.Errorf("expected 0 current value, got %v", res.CurrentValue)
	}
	if res.TotalGainLoss != 0 {
		t.Errorf("expected zero gain, got %v", res.TotalGainLoss)
	}
	if len(res.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(res.Events))
	}
	last := res.Events[4]
	if last.RemainingUnits != 0 || last.AmountReceived != 200 {
		t.Errorf("unexpected final event: %+v", last)
	}
	if res.InitialNavDate != "2020-01-01" {
		t.Errorf("unexpected initial NAV date: %s", res.InitialNavDate)
	}
	if res.GapPolicy != models.GapPolicyStop {
		t.Errorf("expected default stop policy, got %s", res.GapPolicy)
	}
	if res.StoppedEarly {
		t.Error("corpus exhaustion is not an early stop")
	}
}

func TestSWPFinalWithdrawalCapped(t *testing.T) {
	// 1000 buys 100 units; 300/month: 30 + 30 + 30 units, then only 10
	// units remain so the last withdrawal is capped at 100.
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.SWP(context.Background(), "120503", models.SWPRequest{
		InitialInvestment: 1000,
		Amount:            300,
		Frequency:         "monthly",
		From:              "2020-01-01",
		To:                "2020-12-01",
	})
	if err != nil {
		t.Fatalf("SWP failed: %v", err)
	}
	if res.TotalWithdrawn != 1000 {
		t.Errorf("expected 1000 withdrawn, got %v", res.TotalWithdrawn)
	}
	if len(res.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(res.Events))
	}
	if res.Events[3].AmountReceived != 100 {
		t.Errorf("expected capped final withdrawal of 100, got %v", res.Events[3].AmountReceived)
	}
}

func TestSWPYearsBoundsPlan(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.SWP(context.Background(), "120503", models.SWPRequest{
		InitialInvestment: 10000,
		Amount:            100,
		Frequency:         "monthly",
		From:              "2020-01-01",
		Years:             0.5,
	})
	if err != nil {
		t.Fatalf("SWP failed: %v", err)
	}
	// Six months: Jan through Jul 1 inclusive
	if res.DateRange.To != "2020-07-01" {
		t.Errorf("unexpected derived end date: %s", res.DateRange.To)
	}
}

func TestSWPMissingBounds(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))
	_, err := svc.SWP(context.Background(), "120503", models.SWPRequest{
		InitialInvestment: 1000,
		Amount:            100,
		From:              "2020-01-01",
	})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError without 'to' or 'years', got %v", err)
	}
}

// --- Step-up SWP ---

func TestStepUpSWPNoStepUpBeforeTwelfth(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.StepUpSWP(context.Background(), "120503", models.StepUpSWPRequest{
		InitialCorpus:     1000,
		InitialWithdrawal: 100,
		From:              "2020-01-01",
		To:                "2020-03-01",
		StepUpType:        "percentage",
		StepUpValue:       10,
	})
	if err != nil {
		t.Fatalf("StepUpSWP failed: %v", err)
	}

	if res.TotalSWPs != 3 {
		t.Errorf("expected 3 withdrawals, got %d", res.TotalSWPs)
	}
	if res.StepUpAppliedTimes != 0 {
		t.Errorf("expected no step-up before the 12th withdrawal, got %d", res.StepUpAppliedTimes)
	}
	if res.TotalWithdrawn != 300 {
		t.Errorf("expected 300 withdrawn, got %v", res.TotalWithdrawn)
	}
	if res.RemainingUnits != 70 {
		t.Errorf("expected 70 remaining units, got %v", res.RemainingUnits)
	}
	if res.RemainingValue != 700 {
		t.Errorf("expected remaining value 700, got %v", res.RemainingValue)
	}
}

func TestStepUpSWPAppliesEveryTwelfth(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	res, err := svc.StepUpSWP(context.Background(), "120503", models.StepUpSWPRequest{
		InitialCorpus:     100000,
		InitialWithdrawal: 100,
		From:              "2020-01-01",
		To:                "2020-12-01",
		StepUpType:        "percentage",
		StepUpValue:       10,
	})
	if err != nil {
		t.Fatalf("StepUpSWP failed: %v", err)
	}
	// 12 withdrawals of 100; the step-up lands after the 12th and only
	// affects the reported next amount, rounded to a whole unit.
	if res.TotalSWPs != 12 {
		t.Errorf("expected 12 withdrawals, got %d", res.TotalSWPs)
	}
	if res.StepUpAppliedTimes != 1 {
		t.Errorf("expected 1 step-up, got %d", res.StepUpAppliedTimes)
	}
	if res.TotalWithdrawn != 1200 {
		t.Errorf("expected 1200 withdrawn, got %v", res.TotalWithdrawn)
	}
	if res.LastSWPAmount != 110 {
		t.Errorf("expected next amount 110, got %v", res.LastSWPAmount)
	}
}

// --- Period returns ---

func TestPeriodReturnsOverall(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-03-2020", Nav: "12.10000"},
		{Date: "01-02-2020", Nav: "11.00000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.PeriodReturns(context.Background(), "120503", models.PeriodReturnsRequest{
		From:   "2020-01-01",
		To:     "2020-03-01",
		Period: "overall",
	})
	if err != nil {
		t.Fatalf("PeriodReturns failed: %v", err)
	}
	if res.TotalPeriods != 1 {
		t.Fatalf("expected 1 period, got %d", res.TotalPeriods)
	}
	r := res.Returns[0]
	if r.Period != "Overall" {
		t.Errorf("unexpected label: %s", r.Period)
	}
	if r.SimpleReturn != 21 {
		t.Errorf("expected 21%% simple return, got %v", r.SimpleReturn)
	}
	if r.Days != 60 {
		t.Errorf("expected 60 days, got %d", r.Days)
	}
}

func TestPeriodReturnsMonthlyWindows(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-03-2020", Nav: "12.10000"},
		{Date: "01-02-2020", Nav: "11.00000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.PeriodReturns(context.Background(), "120503", models.PeriodReturnsRequest{
		From:   "2020-01-01",
		To:     "2020-03-01",
		Period: "monthly",
	})
	if err != nil {
		t.Fatalf("PeriodReturns failed: %v", err)
	}
	if res.TotalPeriods != 3 {
		t.Fatalf("expected 3 windows, got %d", res.TotalPeriods)
	}
	if res.Returns[0].Period != "Jan 2020 - Jan 2020" {
		t.Errorf("unexpected window label: %s", res.Returns[0].Period)
	}
	// Each window collapses to a single NAV point in this fixture
	for _, r := range res.Returns {
		if r.SimpleReturn != 0 {
			t.Errorf("expected flat window return, got %v for %s", r.SimpleReturn, r.Period)
		}
		if r.AnnualizedReturn != nil {
			t.Errorf("expected nil annualized return for zero-day window %s", r.Period)
		}
	}
}

func TestPeriodReturnsInvalidPeriod(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))
	_, err := svc.PeriodReturns(context.Background(), "120503", models.PeriodReturnsRequest{
		From:   "2020-01-01",
		To:     "2020-03-01",
		Period: "weekly",
	})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// --- Rolling returns ---

func TestRollingReturnsThreeYear(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2023", Nav: "13.31000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.RollingReturns(context.Background(), "120503", models.RollingReturnsRequest{
		On:        "2023-01-01",
		Interval:  "3year",
		Annualize: true,
	})
	if err != nil {
		t.Fatalf("RollingReturns failed: %v", err)
	}

	if len(res.Results) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(res.Results))
	}
	r, ok := res.Results["3year"]
	if !ok {
		t.Fatal("missing 3year result")
	}
	if r.Error != "" {
		t.Fatalf("unexpected interval error: %s", r.Error)
	}
	if !approxEqual(r.PercentChange, 33.1, 1e-9) {
		t.Errorf("expected 33.1%% change, got %v", r.PercentChange)
	}
	if r.AnnualizedPercent == nil || !approxEqual(*r.AnnualizedPercent, 10.0, 1e-6) {
		t.Errorf("expected 10%% annualized, got %v", r.AnnualizedPercent)
	}
	if res.Notice != "" {
		t.Errorf("exact date match should not carry a notice: %s", res.Notice)
	}
}

func TestRollingReturnsAllIntervals(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2023", Nav: "13.31000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.RollingReturns(context.Background(), "120503", models.RollingReturnsRequest{})
	if err != nil {
		t.Fatalf("RollingReturns failed: %v", err)
	}
	for _, key := range []string{"day", "month", "1year", "3year", "5year"} {
		if _, ok := res.Results[key]; !ok {
			t.Errorf("missing interval %s", key)
		}
	}
	// Only 3 years of history: the 5-year lookback cannot resolve
	if res.Results["5year"].Error == "" {
		t.Error("expected insufficient-data error for 5year")
	}
	if res.Results["5year"].StartTarget != "2018-01-01" {
		t.Errorf("unexpected start target: %s", res.Results["5year"].StartTarget)
	}
}

func TestRollingReturnsDateAdjusted(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2023", Nav: "13.31000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.RollingReturns(context.Background(), "120503", models.RollingReturnsRequest{
		On: "2022-06-15",
	})
	if err != nil {
		t.Fatalf("RollingReturns failed: %v", err)
	}
	if res.RequestedDate != "2022-06-15" {
		t.Errorf("unexpected requested date: %s", res.RequestedDate)
	}
	if res.DateAdjustedTo != "2020-01-01" {
		t.Errorf("unexpected adjusted date: %s", res.DateAdjustedTo)
	}
	if res.Notice == "" {
		t.Error("expected an adjustment notice")
	}
}

func TestRollingReturnsBeyondHistory(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	_, err := svc.RollingReturns(context.Background(), "120503", models.RollingReturnsRequest{
		On: "2024-01-01",
	})
	var rErr *models.RangeError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if rErr.LatestNAVDate != "2020-12-01" {
		t.Errorf("unexpected latest bound: %s", rErr.LatestNAVDate)
	}
}

// --- Rolling returns series ---

func TestRollingSeries(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2021", Nav: "12.10000"},
		{Date: "01-07-2020", Nav: "11.50000"},
		{Date: "01-01-2020", Nav: "11.00000"},
		{Date: "01-01-2019", Nav: "10.00000"},
	})

	res, err := svc.RollingSeries(context.Background(), "120503", models.RollingSeriesRequest{
		From:   "2020-01-01",
		To:     "2020-01-01",
		Window: "1year",
	})
	if err != nil {
		t.Fatalf("RollingSeries failed: %v", err)
	}

	if res.TotalDataPoints != 1 {
		t.Fatalf("expected 1 data point, got %d", res.TotalDataPoints)
	}
	p := res.RollingReturns[0]
	if p.StartNav != 10 || p.EndNav != 11 {
		t.Errorf("unexpected NAV pair: %v -> %v", p.StartNav, p.EndNav)
	}
	if p.PercentReturn != 10 || p.AnnualizedReturn != 10 {
		t.Errorf("expected 10%% both ways, got %v / %v", p.PercentReturn, p.AnnualizedReturn)
	}
	stats := res.Statistics
	if stats.AverageReturn != 10 || stats.MaxReturn != 10 || stats.MinReturn != 10 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.PositiveReturns != 1 || stats.PositivePercentage != 100 {
		t.Errorf("unexpected positive counts: %+v", stats)
	}
}

func TestRollingSeriesInsufficientLookback(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))

	_, err := svc.RollingSeries(context.Background(), "120503", models.RollingSeriesRequest{
		From:   "2020-06-01",
		To:     "2020-12-01",
		Window: "1year",
	})
	var rErr *models.RangeError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestRollingSeriesInvalidWindow(t *testing.T) {
	svc := newTestService(flatMonthlyRows("10.00000"))
	_, err := svc.RollingSeries(context.Background(), "120503", models.RollingSeriesRequest{
		From:   "2020-01-01",
		To:     "2020-12-01",
		Window: "18month",
	})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// --- Simple return ---

func TestSimpleReturn(t *testing.T) {
	svc := newTestService([]models.NavRow{
		{Date: "01-01-2023", Nav: "13.31000"},
		{Date: "01-01-2020", Nav: "10.00000"},
	})

	res, err := svc.SimpleReturn(context.Background(), "120503", "2020-01-01", "2023-01-01")
	if err != nil {
		t.Fatalf("SimpleReturn failed: %v", err)
	}
	if !approxEqual(res.SimpleReturn, 33.1, 1e-9) {
		t.Errorf("expected 33.1%%, got %v", res.SimpleReturn)
	}
	if res.AnnualizedReturn == nil || !approxEqual(*res.AnnualizedReturn, 10.0, 0.01) {
		t.Errorf("expected ~10%% annualized, got %v", res.AnnualizedReturn)
	}
	if res.StartDate != "01-01-2020" || res.EndDate != "01-01-2023" {
		t.Errorf("unexpected dates: %s / %s", res.StartDate, res.EndDate)
	}
}
