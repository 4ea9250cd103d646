package scheme

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/navcalc/internal/models"
	"github.com/bobmcallan/navcalc/internal/navseries"
)

// RenderNavChart renders the scheme NAV history as a PNG line chart,
// optionally restricted to [from,to]. Returns raw PNG bytes.
func (s *Service) RenderNavChart(ctx context.Context, code string, from, to string) ([]byte, error) {
	scheme, series, err := s.GetSeries(ctx, code)
	if err != nil {
		return nil, err
	}

	points := series.Points()
	if from != "" || to != "" {
		fromDate, toDate, err := resolveChartRange(series, from, to)
		if err != nil {
			return nil, err
		}
		clipped := points[:0:0]
		for _, p := range points {
			if p.Date.Before(fromDate) || p.Date.After(toDate) {
				continue
			}
			clipped = append(clipped, p)
		}
		points = clipped
	}

	if len(points) < 2 {
		return nil, models.NewDataUnavailableError("not enough NAV data to chart scheme %s", code)
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date
		yValues[i] = p.Nav
	}

	navSeries := chart.TimeSeries{
		Name: "NAV",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  scheme.Meta.SchemeName,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{navSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func resolveChartRange(series navseries.Series, from, to string) (time.Time, time.Time, error) {
	earliest, _ := series.Earliest()
	latest, _ := series.Latest()

	fromDate := earliest.Date
	toDate := latest.Date

	if from != "" {
		d, ok := navseries.ParseDate(from)
		if !ok {
			return time.Time{}, time.Time{}, models.NewValidationError("invalid from date: %s", from)
		}
		fromDate = d
	}
	if to != "" {
		d, ok := navseries.ParseDate(to)
		if !ok {
			return time.Time{}, time.Time{}, models.NewValidationError("invalid to date: %s", to)
		}
		toDate = d
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, models.NewValidationError("to date must not be before from date")
	}
	return fromDate, toDate, nil
}
