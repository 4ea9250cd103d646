// Package calculator runs investment simulations over a scheme's NAV
// history: lumpsum, installment plans (SIP/SWP and their step-up
// variants), period returns and rolling returns.
package calculator

import (
	"math"
	"time"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// Service implements interfaces.CalculatorService.
type Service struct {
	schemes interfaces.SchemeService
	logger  *common.Logger
}

// NewService creates a new calculator service.
func NewService(schemes interfaces.SchemeService, logger *common.Logger) *Service {
	return &Service{schemes: schemes, logger: logger}
}

// Rounding conventions: money 2dp, units 6dp, percentages 2dp. Rolling
// returns keep 6dp.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func roundPtr2(v float64) *float64 {
	r := round2(v)
	return &r
}

// parseRequestDate parses a request date, flagging empty and malformed
// values separately.
func parseRequestDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, models.NewValidationError("'%s' date is required (YYYY-MM-DD)", field)
	}
	d, ok := navseries.ParseDate(value)
	if !ok {
		return time.Time{}, models.NewValidationError("invalid '%s' date format, use YYYY-MM-DD", field)
	}
	return d, nil
}

// parseRange parses and orders a from/to request pair.
func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := parseRequestDate("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := parseRequestDate("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, models.NewValidationError("'to' date cannot be before 'from' date")
	}
	return fromDate, toDate, nil
}

// checkRange rejects a requested period that falls outside the scheme's NAV
// history, reporting the available bounds.
func checkRange(series navseries.Series, from, to time.Time) error {
	if series.Within(from, to) {
		return nil
	}
	earliest, _ := series.Earliest()
	latest, _ := series.Latest()
	return &models.RangeError{
		EarliestNAVDate: earliest.Date.Format(navseries.DateISO),
		LatestNAVDate:   latest.Date.Format(navseries.DateISO),
		RequestedFrom:   from.Format(navseries.DateISO),
		RequestedTo:     to.Format(navseries.DateISO),
	}
}

// annualizedPct returns the CAGR between two values as a rounded
// percentage, or nil when the rate is undefined.
func annualizedPct(begin, end, years float64) *float64 {
	rate, ok := navseries.CAGR(begin, end, years)
	if !ok {
		return nil
	}
	return roundPtr2(rate * 100)
}

// Compile-time check
var _ interfaces.CalculatorService = (*Service)(nil)
