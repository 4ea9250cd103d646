package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// SimpleReturn computes the two-point return between the first NAV on or
// after `from` and the last NAV on or before `to`.
func (s *Service) SimpleReturn(ctx context.Context, code string, from, to string) (*models.SimpleReturnResult, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}

	start, okStart := series.OnOrAfter(fromDate)
	end, okEnd := series.OnOrBefore(toDate)
	if !okStart || !okEnd || start.Date.After(end.Date) {
		return nil, models.NewDataUnavailableError("could not find valid NAVs within the requested date range, or the range is invalid")
	}

	years := navseries.YearsBetween(start.Date, end.Date)

	return &models.SimpleReturnResult{
		StartDate:        start.Date.Format(navseries.DateDisplay),
		EndDate:          end.Date.Format(navseries.DateDisplay),
		StartNAV:         start.Nav,
		EndNAV:           end.Nav,
		SimpleReturn:     navseries.SimpleReturnPct(start.Nav, end.Nav),
		AnnualizedReturn: annualizedPct(start.Nav, end.Nav, years),
	}, nil
}

// PeriodReturns partitions [from,to] into calendar windows and computes
// the return over each. Windows where no NAV pair resolves are dropped.
func (s *Service) PeriodReturns(ctx context.Context, code string, req models.PeriodReturnsRequest) (*models.PeriodReturnsResult, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	period := req.Period
	if period == "" {
		period = "overall"
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkRange(series, from, to); err != nil {
		return nil, err
	}

	var returns []models.PeriodReturn
	if period == "overall" {
		if r, ok := windowReturn(series, from, to, "Overall"); ok {
			returns = append(returns, r)
		}
	} else {
		stepMonths, err := periodStepMonths(period)
		if err != nil {
			return nil, err
		}
		for start := from; start.Before(to); start = navseries.AddMonths(start, stepMonths) {
			end := navseries.AddMonths(start, stepMonths).AddDate(0, 0, -1)
			if end.After(to) {
				end = to
			}
			if r, ok := windowReturn(series, start, end, ""); ok {
				returns = append(returns, r)
			}
		}
	}

	if returns == nil {
		returns = []models.PeriodReturn{}
	}

	return &models.PeriodReturnsResult{
		Period:       period,
		Returns:      returns,
		TotalPeriods: len(returns),
	}, nil
}

func periodStepMonths(period string) (int, error) {
	switch period {
	case "monthly":
		return 1, nil
	case "quarterly":
		return 3, nil
	case "yearly":
		return 12, nil
	default:
		return 0, models.NewValidationError("'period' must be one of: monthly, quarterly, yearly, overall")
	}
}

// windowReturn resolves the NAV pair for one window and computes its
// return. ok is false when the window has no usable pair.
func windowReturn(series navseries.Series, from, to time.Time, label string) (models.PeriodReturn, bool) {
	start, okStart := series.OnOrAfter(from)
	end, okEnd := series.OnOrBefore(to)
	if !okStart || !okEnd || start.Date.After(end.Date) {
		return models.PeriodReturn{}, false
	}

	days := navseries.DaysBetween(start.Date, end.Date)
	years := float64(days) / 365.25

	if label == "" {
		label = fmt.Sprintf("%s - %s", start.Date.Format("Jan 2006"), end.Date.Format("Jan 2006"))
	}

	return models.PeriodReturn{
		Period:           label,
		StartDate:        start.Date.Format(navseries.DateDisplay),
		EndDate:          end.Date.Format(navseries.DateDisplay),
		StartNAV:         start.Nav,
		EndNAV:           end.Nav,
		SimpleReturn:     round2(navseries.SimpleReturnPct(start.Nav, end.Nav)),
		AnnualizedReturn: annualizedPct(start.Nav, end.Nav, years),
		Days:             days,
	}, true
}
