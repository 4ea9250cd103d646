package calculator

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// swpFrequencies maps SWP frequency names to installment cadence.
var swpFrequencies = map[string]struct{ months, days int }{
	"monthly": {months: 1},
	"weekly":  {days: 7},
	"daily":   {days: 1},
}

// SWP simulates a systematic withdrawal plan: the corpus buys units at the
// first NAV on or after `from`, then each withdrawal sells at the NAV on
// or before its date. Withdrawals are capped at the remaining unit value.
func (s *Service) SWP(ctx context.Context, code string, req models.SWPRequest) (*models.SWPResult, error) {
	if req.InitialInvestment <= 0 {
		return nil, models.NewValidationError("'initialInvestment' must be a positive number")
	}
	if req.Amount <= 0 {
		return nil, models.NewValidationError("'amount' must be a positive number")
	}
	freqName := strings.ToLower(req.Frequency)
	if freqName == "" {
		freqName = "monthly"
	}
	freq, ok := swpFrequencies[freqName]
	if !ok {
		return nil, models.NewValidationError("'frequency' must be one of: monthly, weekly, daily")
	}
	gapPolicy := strings.ToLower(req.OnGap)
	if gapPolicy == "" {
		gapPolicy = models.GapPolicyStop
	}
	if gapPolicy != models.GapPolicyStop && gapPolicy != models.GapPolicySkip {
		return nil, models.NewValidationError("'onGap' must be 'stop' or 'skip'")
	}

	from, err := parseRequestDate("from", req.From)
	if err != nil {
		return nil, err
	}
	var to time.Time
	switch {
	case req.To != "":
		to, err = parseRequestDate("to", req.To)
		if err != nil {
			return nil, err
		}
	case req.Years > 0:
		to = navseries.AddMonths(from, int(req.Years*12))
	default:
		return nil, models.NewValidationError("either 'to' or 'years' is required")
	}
	if to.Before(from) {
		return nil, models.NewValidationError("'to' date cannot be before 'from' date")
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkRange(series, from, to); err != nil {
		return nil, err
	}

	// Fund the corpus at the first NAV on or after the start date.
	initial, ok := series.OnOrAfter(from)
	if !ok || initial.Nav <= 0 {
		return nil, models.NewComputationError("could not find a valid NAV for the initial investment date")
	}

	onGap := gapStop
	if gapPolicy == models.GapPolicySkip {
		onGap = gapSkip
	}

	out, err := runPlan(series, planSpec{
		start:        from,
		end:          to,
		amount:       req.Amount,
		stepMonths:   freq.months,
		stepDays:     freq.days,
		direction:    directionSell,
		navPolicy:    navAtOrBefore,
		onGap:        onGap,
		openingUnits: req.InitialInvestment / initial.Nav,
	})
	if err != nil {
		return nil, err
	}

	final, ok := series.OnOrBefore(to)
	if !ok {
		final, _ = series.Latest()
	}

	currentValue := out.unitsHeld * final.Nav
	gainLoss := currentValue + out.totalAmount - req.InitialInvestment

	events := make([]models.SWPEvent, 0, len(out.events))
	for _, ev := range out.events {
		if ev.gap {
			events = append(events, models.SWPEvent{
				Date:    ev.date.Format(navseries.DateISO),
				Nav:     nil,
				Skipped: true,
				Reason:  ev.reason,
			})
			continue
		}
		nav := ev.nav
		events = append(events, models.SWPEvent{
			Date:           ev.date.Format(navseries.DateISO),
			NavDateUsed:    ev.navDate.Format(navseries.DateISO),
			Nav:            &nav,
			UnitsSold:      round6(ev.units),
			AmountReceived: round2(ev.amount),
			RemainingUnits: round6(ev.remaining),
		})
	}

	return &models.SWPResult{
		InitialInvestment: req.InitialInvestment,
		TotalWithdrawn:    round2(out.totalAmount),
		TotalGainLoss:     round2(gainLoss),
		CurrentValue:      round2(currentValue),
		RemainingUnits:    round6(out.unitsHeld),
		FinalNavDate:      final.Date.Format(navseries.DateISO),
		FinalNav:          final.Nav,
		Events:            events,
		InitialNavDate:    initial.Date.Format(navseries.DateISO),
		DateRange: models.DateRange{
			From: from.Format(navseries.DateISO),
			To:   to.Format(navseries.DateISO),
		},
		GapPolicy:    gapPolicy,
		StoppedEarly: out.stoppedEarly,
		Warnings:     []string{},
	}, nil
}

// StepUpSWP simulates a monthly withdrawal plan whose withdrawal grows
// after every 12th withdrawal. Both the corpus purchase and each
// withdrawal resolve to the NAV on or after their date; a gap ends the
// plan.
func (s *Service) StepUpSWP(ctx context.Context, code string, req models.StepUpSWPRequest) (*models.StepUpSWPResult, error) {
	if req.InitialCorpus <= 0 {
		return nil, models.NewValidationError("'initialCorpus' must be a positive number")
	}
	if req.InitialWithdrawal <= 0 {
		return nil, models.NewValidationError("'initialWithdrawal' must be a positive number")
	}
	stepUpType, stepUpValue, err := normalizeStepUp(req.StepUpType, req.StepUpValue)
	if err != nil {
		return nil, err
	}
	if req.Frequency != "" && !strings.EqualFold(req.Frequency, "monthly") {
		return nil, models.NewValidationError("'frequency' must be monthly")
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

	initial, ok := series.OnOrAfter(from)
	if !ok || initial.Nav <= 0 {
		return nil, models.NewComputationError("could not find valid NAV on or after start date %s to fund the corpus", from.Format(navseries.DateISO))
	}

	out, err := runPlan(series, planSpec{
		start:        from,
		end:          to,
		amount:       req.InitialWithdrawal,
		stepMonths:   1,
		direction:    directionSell,
		navPolicy:    navAtOrAfter,
		onGap:        gapStop,
		openingUnits: req.InitialCorpus / initial.Nav,
		stepUpEvery:  12,
		stepUpType:   stepUpType,
		stepUpValue:  stepUpValue,
		roundStepUp:  stepUpType == models.StepUpTypePercentage,
	})
	if err != nil {
		return nil, err
	}

	final, ok := series.OnOrBefore(to)
	if !ok || final.Nav <= 0 {
		return nil, models.NewDataUnavailableError("no valid NAV data found near the end date for final valuation")
	}

	remainingValue := out.unitsHeld * final.Nav
	gainLoss := out.totalAmount + remainingValue - req.InitialCorpus
	simpleReturn := gainLoss / req.InitialCorpus * 100

	earliest, _ := series.Earliest()
	latest, _ := series.Latest()

	return &models.StepUpSWPResult{
		InitialCorpus:      round2(req.InitialCorpus),
		StartDate:          from.Format(navseries.DateDisplay),
		EndDate:            final.Date.Format(navseries.DateDisplay),
		TotalWithdrawn:     round2(out.totalAmount),
		RemainingUnits:     round6(out.unitsHeld),
		RemainingValue:     round2(remainingValue),
		TotalGainLoss:      round2(gainLoss),
		SimpleReturn:       round2(simpleReturn),
		StepUpType:         stepUpType,
		StepUpValue:        round2(stepUpValue),
		StepUpAppliedTimes: out.stepUpsApplied,
		TotalSWPs:          out.count,
		LastSWPAmount:      round2(out.lastAmount),
		AvailableNAVRange: models.DateRange{
			From: earliest.Date.Format(navseries.DateISO),
			To:   latest.Date.Format(navseries.DateISO),
		},
	}, nil
}
