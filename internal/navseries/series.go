// Package navseries provides the parsed, date-indexed NAV history of a
// mutual fund scheme and the lookups the calculators are built on.
package navseries

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/navcalc/internal/models"
)

// Point is one NAV observation. Date is normalized to midnight UTC.
type Point struct {
	Date time.Time
	Nav  float64
}

// Series is an ascending, date-ordered NAV history.
type Series struct {
	points []Point
}

// Parse converts raw provider rows (newest first) into an ascending series.
// Rows with "-", empty, unparseable or non-finite NAVs are dropped and
// thousands separators are stripped. When a date appears more than once, the most
// recently published row wins.
func Parse(rows []models.NavRow) Series {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		date, ok := ParseDate(row.Date)
		if !ok {
			continue
		}
		raw := strings.TrimSpace(row.Nav)
		if raw == "" || raw == "-" {
			continue
		}
		nav, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		// ParseFloat accepts "Inf" and "NaN"; those rows are junk too.
		if math.IsInf(nav, 0) || math.IsNaN(nav) {
			continue
		}
		points = append(points, Point{Date: date, Nav: nav})
	}

	// Feed order is newest first; flip to ascending.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	// Duplicate dates: the row published later sits later after the flip.
	deduped := points[:0]
	for i, p := range points {
		if i+1 < len(points) && points[i+1].Date.Equal(p.Date) {
			continue
		}
		deduped = append(deduped, p)
	}

	return Series{points: deduped}
}

// FromPoints builds a series from points already in ascending date order.
func FromPoints(points []Point) Series {
	return Series{points: points}
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.points)
}

// Points returns the underlying ascending point slice.
func (s Series) Points() []Point {
	return s.points
}

// Earliest returns the oldest point; ok is false for an empty series.
func (s Series) Earliest() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[0], true
}

// Latest returns the newest point; ok is false for an empty series.
func (s Series) Latest() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// OnOrBefore returns the point with the greatest date <= target.
func (s Series) OnOrBefore(target time.Time) (Point, bool) {
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(target)
	})
	if idx == 0 {
		return Point{}, false
	}
	return s.points[idx-1], true
}

// OnOrAfter returns the point with the smallest date >= target.
func (s Series) OnOrAfter(target time.Time) (Point, bool) {
	idx := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(target)
	})
	if idx == len(s.points) {
		return Point{}, false
	}
	return s.points[idx], true
}

// Within reports whether [from,to] lies inside the series history.
func (s Series) Within(from, to time.Time) bool {
	earliest, ok := s.Earliest()
	if !ok {
		return false
	}
	latest, _ := s.Latest()
	return !from.Before(earliest.Date) && !to.After(latest.Date)
}
