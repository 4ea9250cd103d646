package calculator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// intervalSpec describes one rolling lookback interval. Days takes
// precedence over months when both are set.
type intervalSpec struct {
	months int
	days   int
	years  int
}

// Standard lookback intervals. Custom "Nyear" keys are added on demand.
var rollingIntervals = map[string]intervalSpec{
	"day":   {days: 1},
	"month": {months: 1},
	"1year": {months: 12, years: 1},
	"3year": {months: 36, years: 3},
	"5year": {months: 60, years: 5},
}

var yearWindowRe = regexp.MustCompile(`^(\d+)year$`)

// startTarget computes the lookback start date for an interval, anchored
// at the end date.
func startTarget(end time.Time, spec intervalSpec) time.Time {
	if spec.days > 0 {
		return end.AddDate(0, 0, -spec.days)
	}
	return navseries.AddMonths(end, -spec.months)
}

// RollingReturns computes lookback returns over one or all standard
// intervals, anchored at the NAV on or before the requested date (the
// latest NAV when no date is given).
func (s *Service) RollingReturns(ctx context.Context, code string, req models.RollingReturnsRequest) (*models.RollingReturnsResult, error) {
	var onDate time.Time
	if req.On != "" {
		d, ok := navseries.ParseDate(req.On)
		if !ok {
			return nil, models.NewValidationError("invalid date format for 'on' parameter: %s, use DD-MM-YYYY or YYYY-MM-DD", req.On)
		}
		onDate = d
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	earliest, _ := series.Earliest()
	latest, _ := series.Latest()

	if !onDate.IsZero() && onDate.After(latest.Date) {
		return nil, &models.RangeError{
			Msg: fmt.Sprintf("scheme data range: %s to %s, data is not available for %s",
				earliest.Date.Format(navseries.DateISO), latest.Date.Format(navseries.DateISO), onDate.Format(navseries.DateISO)),
			EarliestNAVDate: earliest.Date.Format(navseries.DateISO),
			LatestNAVDate:   latest.Date.Format(navseries.DateISO),
			RequestedTo:     onDate.Format(navseries.DateISO),
		}
	}

	intervals := make(map[string]intervalSpec, len(rollingIntervals))
	for k, v := range rollingIntervals {
		intervals[k] = v
	}

	intervalKey := req.Interval
	if m := yearWindowRe.FindStringSubmatch(intervalKey); m != nil {
		if _, exists := intervals[intervalKey]; !exists {
			years, _ := strconv.Atoi(m[1])
			intervals[intervalKey] = intervalSpec{months: years * 12, years: years}
		}
	}

	// Anchor the end point.
	endPoint := latest
	dateAdjusted := false
	if !onDate.IsZero() {
		p, ok := series.OnOrBefore(onDate)
		if !ok {
			return nil, models.NewDataUnavailableError("no NAV on or before the requested 'on' date within scheme history")
		}
		endPoint = p
		dateAdjusted = !p.Date.Equal(onDate)
	}

	keys := make([]string, 0, len(intervals))
	if _, ok := intervals[intervalKey]; intervalKey != "" && ok {
		keys = append(keys, intervalKey)
	} else {
		for k := range intervals {
			keys = append(keys, k)
		}
	}

	results := make(map[string]models.RollingIntervalResult, len(keys))
	for _, key := range keys {
		spec := intervals[key]
		target := startTarget(endPoint.Date, spec)
		start, ok := series.OnOrBefore(target)
		if !ok || !start.Date.Before(endPoint.Date) {
			results[key] = models.RollingIntervalResult{
				Error:       "insufficient data for interval",
				StartTarget: target.Format(navseries.DateISO),
			}
			continue
		}
		if start.Nav == 0 {
			results[key] = models.RollingIntervalResult{
				Error: "NAV at start date is zero, cannot calculate percentage return",
			}
			continue
		}

		var annualized *float64
		if req.Annualize && spec.years > 0 {
			if rate, ok := navseries.CAGR(start.Nav, endPoint.Nav, float64(spec.years)); ok {
				v := round6(rate * 100)
				annualized = &v
			}
		}

		results[key] = models.RollingIntervalResult{
			StartDate:         start.Date.Format(navseries.DateDisplay),
			EndDate:           endPoint.Date.Format(navseries.DateDisplay),
			StartNav:          start.Nav,
			EndNav:            endPoint.Nav,
			AbsoluteChange:    round6(endPoint.Nav - start.Nav),
			PercentChange:     round6(navseries.SimpleReturnPct(start.Nav, endPoint.Nav)),
			AnnualizedPercent: annualized,
		}
	}

	result := &models.RollingReturnsResult{
		Code:        code,
		EndDateUsed: endPoint.Date.Format(navseries.DateDisplay),
		Results:     results,
	}
	if dateAdjusted {
		result.RequestedDate = onDate.Format(navseries.DateISO)
		result.DateAdjustedTo = endPoint.Date.Format(navseries.DateISO)
		result.Notice = "NAV not available for requested date. Calculation adjusted to the nearest prior NAV date."
	}
	return result, nil
}

// RollingSeries walks a fixed rolling window across [from,to] in stepDays
// increments and summarizes the annualized returns.
func (s *Service) RollingSeries(ctx context.Context, code string, req models.RollingSeriesRequest) (*models.RollingSeriesResult, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	window := req.Window
	if window == "" {
		window = "1year"
	}
	m := yearWindowRe.FindStringSubmatch(window)
	if m == nil {
		return nil, models.NewValidationError("invalid window format, use format like '1year', '2year', '3year'")
	}
	windowYears, _ := strconv.Atoi(m[1])
	windowMonths := windowYears * 12

	stepDays := req.StepDays
	if stepDays <= 0 {
		stepDays = 30
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	earliest, _ := series.Earliest()
	latest, _ := series.Latest()

	// Every window needs a full lookback of history behind it.
	requiredStart := navseries.AddMonths(from, -windowMonths)
	if requiredStart.Before(earliest.Date) {
		return nil, &models.RangeError{
			Msg: fmt.Sprintf("insufficient historical data: need data from %s but earliest available is %s",
				requiredStart.Format(navseries.DateISO), earliest.Date.Format(navseries.DateISO)),
			EarliestNAVDate: earliest.Date.Format(navseries.DateISO),
			LatestNAVDate:   latest.Date.Format(navseries.DateISO),
			RequestedFrom:   requiredStart.Format(navseries.DateISO),
		}
	}
	if to.After(latest.Date) {
		return nil, &models.RangeError{
			Msg:             "end date is beyond available data",
			EarliestNAVDate: earliest.Date.Format(navseries.DateISO),
			LatestNAVDate:   latest.Date.Format(navseries.DateISO),
			RequestedTo:     to.Format(navseries.DateISO),
		}
	}

	var points []models.RollingSeriesPoint
	for cursor := from; !cursor.After(to); cursor = cursor.AddDate(0, 0, stepDays) {
		end, ok := series.OnOrBefore(cursor)
		if !ok {
			continue
		}
		start, ok := series.OnOrBefore(navseries.AddMonths(cursor, -windowMonths))
		if !ok || start.Nav <= 0 {
			continue
		}
		rate, _ := navseries.CAGR(start.Nav, end.Nav, float64(windowYears))
		points = append(points, models.RollingSeriesPoint{
			EndDate:          end.Date.Format(navseries.DateISO),
			StartDate:        start.Date.Format(navseries.DateISO),
			StartNav:         start.Nav,
			EndNav:           end.Nav,
			PercentReturn:    round2(navseries.SimpleReturnPct(start.Nav, end.Nav)),
			AnnualizedReturn: round2(rate * 100),
		})
	}

	if len(points) == 0 {
		return nil, models.NewDataUnavailableError("no valid rolling returns could be calculated for the given period")
	}

	var sum float64
	maxReturn := points[0].AnnualizedReturn
	minReturn := points[0].AnnualizedReturn
	positive, negative := 0, 0
	for _, p := range points {
		sum += p.AnnualizedReturn
		if p.AnnualizedReturn > maxReturn {
			maxReturn = p.AnnualizedReturn
		}
		if p.AnnualizedReturn < minReturn {
			minReturn = p.AnnualizedReturn
		}
		if p.AnnualizedReturn > 0 {
			positive++
		} else if p.AnnualizedReturn < 0 {
			negative++
		}
	}

	return &models.RollingSeriesResult{
		Window:          window,
		WindowYears:     windowYears,
		AnalysisFrom:    from.Format(navseries.DateISO),
		AnalysisTo:      to.Format(navseries.DateISO),
		TotalDataPoints: len(points),
		Statistics: models.RollingSeriesStats{
			AverageReturn:      round2(sum / float64(len(points))),
			MaxReturn:          maxReturn,
			MinReturn:          minReturn,
			PositiveReturns:    positive,
			NegativeReturns:    negative,
			PositivePercentage: round2(float64(positive) / float64(len(points)) * 100),
		},
		RollingReturns: points,
	}, nil
}
