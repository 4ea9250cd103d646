package calculator

import (
	"context"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// Lumpsum simulates a single purchase at the first NAV on or after `from`,
// valued at the last NAV on or before `to`.
func (s *Service) Lumpsum(ctx context.Context, code string, req models.LumpsumRequest) (*models.LumpsumResult, error) {
	if req.Investment <= 0 {
		return nil, models.NewValidationError("'investment' must be a positive number")
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkRange(series, from, to); err != nil {
		return nil, err
	}

	start, ok := series.OnOrAfter(from)
	if !ok {
		return nil, models.NewDataUnavailableError("could not find NAV data on or after start date %s", from.Format(navseries.DateISO))
	}
	end, ok := series.OnOrBefore(to)
	if !ok || start.Date.After(end.Date) {
		return nil, models.NewDataUnavailableError("could not find NAV data up to the end date, or the period is invalid")
	}
	if start.Nav <= 0 || end.Nav <= 0 {
		return nil, models.NewComputationError("NAV is zero or negative for one of the selected dates")
	}

	units := req.Investment / start.Nav
	currentValue := units * end.Nav
	gainLoss := currentValue - req.Investment
	simpleReturn := gainLoss / req.Investment * 100

	years := navseries.YearsBetween(start.Date, end.Date)

	return &models.LumpsumResult{
		InitialInvestment: round2(req.Investment),
		UnitsPurchased:    round6(units),
		CurrentValue:      round2(currentValue),
		TotalGainLoss:     round2(gainLoss),
		StartDate:         start.Date.Format(navseries.DateDisplay),
		EndDate:           end.Date.Format(navseries.DateDisplay),
		StartNAV:          start.Nav,
		EndNAV:            end.Nav,
		SimpleReturn:      round2(simpleReturn),
		AnnualizedReturn:  annualizedPct(start.Nav, end.Nav, years),
	}, nil
}
