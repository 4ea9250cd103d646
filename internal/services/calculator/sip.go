package calculator

import (
	"context"
	"errors"
	"strings"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// sipFrequencies maps SIP frequency names to installment cadence in months.
var sipFrequencies = map[string]int{
	"monthly":    1,
	"quarterly":  3,
	"halfyearly": 6,
	"yearly":     12,
}

// SIP simulates a fixed recurring investment. Each installment buys at the
// NAV on or before its date; dates with no resolvable NAV are skipped.
func (s *Service) SIP(ctx context.Context, code string, req models.SIPRequest) (*models.SIPResult, error) {
	if req.Amount <= 0 {
		return nil, models.NewValidationError("'amount' must be a positive number")
	}
	freq := strings.ToLower(req.Frequency)
	months, ok := sipFrequencies[freq]
	if !ok {
		return nil, models.NewValidationError("'frequency' must be one of: monthly, quarterly, halfyearly, yearly")
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	_, series, err := s.schemes.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}
	if series.Len() < 2 {
		return nil, models.NewDataUnavailableError("insufficient valid NAV data available for this scheme")
	}
	if err := checkRange(series, from, to); err != nil {
		return nil, err
	}

	out, err := runPlan(series, planSpec{
		start:      from,
		end:        to,
		amount:     req.Amount,
		stepMonths: months,
		direction:  directionBuy,
		navPolicy:  navAtOrBefore,
		onGap:      gapSkip,
	})
	if err != nil {
		return nil, err
	}

	final, ok := series.OnOrBefore(to)
	if !ok || out.count == 0 || out.totalAmount == 0 {
		return nil, models.NewDataUnavailableError("no successful installments found within the period")
	}

	currentValue := out.unitsHeld * final.Nav
	gainLoss := currentValue - out.totalAmount
	simpleReturn := gainLoss / out.totalAmount * 100

	// Annualized over the span from first executed installment to the
	// final valuation date. An approximation: money-weighting is ignored.
	years := navseries.YearsBetween(out.firstNavDate, final.Date)

	return &models.SIPResult{
		Meta: models.SIPMeta{
			SchemeCode:           code,
			Frequency:            freq,
			Installments:         out.count,
			FirstInstallmentDate: out.firstNavDate.Format(navseries.DateDisplay),
			LastValuationDate:    final.Date.Format(navseries.DateDisplay),
		},
		Summary: models.SIPSummary{
			SIPAmount:        round2(req.Amount),
			TotalInvested:    round2(out.totalAmount),
			TotalUnits:       round6(out.unitsHeld),
			CurrentValue:     round2(currentValue),
			TotalGainLoss:    round2(gainLoss),
			SimpleReturn:     round2(simpleReturn),
			AnnualizedReturn: annualizedPct(out.totalAmount, currentValue, years),
		},
	}, nil
}

// StepUpSIP simulates a monthly SIP whose installment grows after every
// executed installment from the second onward. Installments buy at the NAV
// on or after their date; a date with no later NAV aborts the simulation.
func (s *Service) StepUpSIP(ctx context.Context, code string, req models.StepUpSIPRequest) (*models.StepUpSIPResult, error) {
	if req.InitialInvestment <= 0 {
		return nil, models.NewValidationError("'initialInvestment' must be a positive number")
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

	out, err := runPlan(series, planSpec{
		start:       from,
		end:         to,
		amount:      req.InitialInvestment,
		stepMonths:  1,
		direction:   directionBuy,
		navPolicy:   navAtOrAfter,
		onGap:       gapFail,
		stepUpEvery: 1,
		stepUpType:  stepUpType,
		stepUpValue: stepUpValue,
	})
	if err != nil {
		var gap *gapError
		if errors.As(err, &gap) {
			return nil, models.NewDataUnavailableError("no valid NAV found on or after date %s for investment", gap.date.Format(navseries.DateISO))
		}
		return nil, err
	}

	final, ok := series.OnOrBefore(to)
	if !ok || final.Nav <= 0 {
		return nil, models.NewDataUnavailableError("no valid NAV data found near the end date for final valuation")
	}

	currentValue := out.unitsHeld * final.Nav
	gainLoss := currentValue - out.totalAmount
	simpleReturn := gainLoss / out.totalAmount * 100

	earliest, _ := series.Earliest()
	latest, _ := series.Latest()

	return &models.StepUpSIPResult{
		StartDate:          from.Format(navseries.DateDisplay),
		EndDate:            final.Date.Format(navseries.DateDisplay),
		TotalInvested:      round2(out.totalAmount),
		TotalUnits:         round6(out.unitsHeld),
		CurrentValue:       round2(currentValue),
		TotalGainLoss:      round2(gainLoss),
		SimpleReturn:       round2(simpleReturn),
		StepUpType:         stepUpType,
		StepUpValue:        round2(stepUpValue),
		StepUpAppliedTimes: out.stepUpsApplied,
		TotalSIPs:          out.count,
		LastSIPAmount:      round2(out.lastAmount),
		AvailableNAVRange: models.DateRange{
			From: earliest.Date.Format(navseries.DateISO),
			To:   latest.Date.Format(navseries.DateISO),
		},
	}, nil
}

// normalizeStepUp applies the step-up defaults: percentage type, value 10.
func normalizeStepUp(stepUpType string, stepUpValue float64) (string, float64, error) {
	if stepUpType == "" {
		stepUpType = models.StepUpTypePercentage
	}
	if stepUpType != models.StepUpTypePercentage && stepUpType != models.StepUpTypeAmount {
		return "", 0, models.NewValidationError("'stepUpType' must be 'percentage' or 'amount'")
	}
	if stepUpValue == 0 {
		stepUpValue = 10
	}
	if stepUpValue < 0 {
		return "", 0, models.NewValidationError("'stepUpValue' must not be negative")
	}
	return stepUpType, stepUpValue, nil
}
