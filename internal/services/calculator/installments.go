package calculator

import (
	"math"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// The four installment products (SIP, step-up SIP, SWP, step-up SWP) are
// one simulation with different knobs: transaction direction, which side
// of a missing NAV date to resolve to, what to do on an unresolvable
// date, and when the installment amount steps up.

type direction int

const (
	directionBuy direction = iota
	directionSell
)

type navPolicy int

const (
	navAtOrBefore navPolicy = iota
	navAtOrAfter
)

type gapAction int

const (
	// gapSkip records the gap and continues; gapStop records it and ends
	// the plan; gapFail aborts the whole simulation.
	gapSkip gapAction = iota
	gapStop
	gapFail
)

// planSpec describes one installment plan.
type planSpec struct {
	start, end time.Time
	amount     float64 // first installment amount

	// Installment cadence: stepMonths for calendar frequencies,
	// stepDays for weekly/daily.
	stepMonths int
	stepDays   int

	direction direction
	navPolicy navPolicy
	onGap     gapAction

	// openingUnits funds a sell plan.
	openingUnits float64

	// Step-up: stepUpEvery 1 applies after every executed installment
	// from the second; N>1 applies after every Nth installment. The
	// stepped amount takes effect on the next installment.
	stepUpEvery int
	stepUpType  string
	stepUpValue float64
	roundStepUp bool // round the stepped amount to whole currency units
}

// planEvent is one dated transaction attempt.
type planEvent struct {
	date      time.Time
	navDate   time.Time
	nav       float64
	amount    float64 // money moved
	units     float64 // units bought or sold
	remaining float64 // units held after the transaction
	gap       bool
	reason    string
}

// planOutcome aggregates an executed plan.
type planOutcome struct {
	events         []planEvent
	totalAmount    float64 // total invested (buy) or withdrawn (sell)
	unitsHeld      float64 // units accumulated (buy) or remaining (sell)
	count          int     // executed installments
	stepUpsApplied int
	lastAmount     float64 // installment amount after the final step-up
	firstNavDate   time.Time
	stoppedEarly   bool
}

type gapError struct {
	date time.Time
}

func (e *gapError) Error() string {
	return "no NAV resolvable for installment date " + e.date.Format(navseries.DateISO)
}

// runPlan walks the installment dates from start to end and executes each
// transaction against the resolved NAV.
func runPlan(series navseries.Series, spec planSpec) (*planOutcome, error) {
	out := &planOutcome{
		unitsHeld:  spec.openingUnits,
		lastAmount: spec.amount,
	}
	amount := spec.amount

	for cursor := spec.start; !cursor.After(spec.end); cursor = advance(cursor, spec) {
		if spec.direction == directionSell && out.unitsHeld <= 0 {
			break
		}

		point, ok := resolveNav(series, cursor, spec.navPolicy)
		if !ok || point.Nav <= 0 {
			switch spec.onGap {
			case gapSkip:
				out.events = append(out.events, planEvent{
					date:   cursor,
					gap:    true,
					reason: "No NAV found on or before this date.",
				})
				continue
			case gapStop:
				out.events = append(out.events, planEvent{
					date:   cursor,
					gap:    true,
					reason: "No NAV resolvable; plan stopped.",
				})
				out.stoppedEarly = true
				return out, nil
			default:
				return nil, &gapError{date: cursor}
			}
		}

		var units, moved float64
		switch spec.direction {
		case directionBuy:
			units = amount / point.Nav
			moved = amount
			out.unitsHeld += units
		case directionSell:
			units = math.Min(amount/point.Nav, out.unitsHeld)
			moved = units * point.Nav
			out.unitsHeld = math.Max(0, out.unitsHeld-units)
		}
		out.totalAmount += moved
		out.count++
		if out.firstNavDate.IsZero() {
			out.firstNavDate = point.Date
		}

		out.events = append(out.events, planEvent{
			date:      cursor,
			navDate:   point.Date,
			nav:       point.Nav,
			amount:    moved,
			units:     units,
			remaining: out.unitsHeld,
		})

		if applyStepUp(spec, out.count) {
			out.stepUpsApplied++
			switch spec.stepUpType {
			case models.StepUpTypeAmount:
				amount += spec.stepUpValue
			default:
				amount *= 1 + spec.stepUpValue/100
				if spec.roundStepUp {
					amount = math.Round(amount)
				}
			}
		}
		out.lastAmount = amount
	}

	return out, nil
}

func advance(cursor time.Time, spec planSpec) time.Time {
	if spec.stepDays > 0 {
		return cursor.AddDate(0, 0, spec.stepDays)
	}
	return navseries.AddMonths(cursor, spec.stepMonths)
}

func resolveNav(series navseries.Series, target time.Time, policy navPolicy) (navseries.Point, bool) {
	if policy == navAtOrAfter {
		return series.OnOrAfter(target)
	}
	return series.OnOrBefore(target)
}

func applyStepUp(spec planSpec, count int) bool {
	switch {
	case spec.stepUpEvery == 1:
		return count > 1
	case spec.stepUpEvery > 1:
		return count%spec.stepUpEvery == 0
	default:
		return false
	}
}
