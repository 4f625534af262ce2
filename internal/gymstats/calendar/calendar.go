// Package calendar turns a range token into the window and bucket skeleton
// that stats are aggregated into. Everything here is pure: "now" is always passed in.
package calendar

import (
	"fmt"
	"time"
)

type Range string

const (
	RangeWeek       Range = "1w"
	RangeMonth      Range = "1m"
	RangeThreeMonth Range = "3m"
	RangeSixMonth   Range = "6m"
	RangeYear       Range = "1y"

	DefaultRange = RangeThreeMonth
)

var aliases = map[string]Range{
	"1week":  RangeWeek,
	"1month": RangeMonth,
	"3month": RangeThreeMonth,
	"6month": RangeSixMonth,
	"1year":  RangeYear,
}

// ParseRange normalizes a query value into a Range. Matching is case-sensitive;
// anything unknown (including "") yields DefaultRange.
func ParseRange(s string) Range {
	switch r := Range(s); r {
	case RangeWeek, RangeMonth, RangeThreeMonth, RangeSixMonth, RangeYear:
		return r
	}
	if r, ok := aliases[s]; ok {
		return r
	}
	return DefaultRange
}

func (r Range) Valid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeThreeMonth, RangeSixMonth, RangeYear:
		return true
	}
	return false
}

type granularity int

const (
	daily granularity = iota
	weekly
	monthly
)

// window is the single anchor computation both ResolveStart and GenerateBuckets derive from.
// Boundaries are built from calendar fields, never by shifting an instant, so a midnight
// that does not exist in loc cannot drag the rest of the sequence into the previous day.
type window struct {
	year  int
	month time.Month
	day   int
	loc   *time.Location
	count int
	step  granularity
}

// boundary returns the start of the n-th bucket, n == count being the end of the window.
func (w window) boundary(n int) time.Time {
	switch w.step {
	case daily:
		return dayStart(w.year, w.month, w.day+n, w.loc)
	case weekly:
		return dayStart(w.year, w.month, w.day+7*n, w.loc)
	default:
		return dayStart(w.year, w.month+time.Month(n), 1, w.loc)
	}
}

func (w window) label(start time.Time) string {
	switch w.step {
	case daily:
		return start.Format("Mon")
	case weekly:
		_, week := start.ISOWeek()
		return fmt.Sprintf("Week %d", week)
	default:
		return start.Format("Jan")
	}
}

// dayStart returns the first instant of the calendar day y-m-d in loc. Overflowing fields
// are normalized like time.Date does. Where a DST switch skips midnight, the day starts at the
// transition instead of 00:00.
func dayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	// normalize the fields without any zone involved
	y, m, d = time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if ty, tm, td := t.Date(); ty != y || tm != m || td != d {
		// midnight was skipped and got normalized into the previous day
		if _, end := t.ZoneBounds(); !end.IsZero() {
			return end
		}
	}
	return t
}

// isoWeekdayOffset is the number of days since the Monday of t's week.
func isoWeekdayOffset(t time.Time) int {
	// time.Weekday is Sunday-first, shift so that Monday is 0
	return (int(t.Weekday()) + 6) % 7
}

func windowFor(r Range, now time.Time) window {
	if !r.Valid() {
		r = DefaultRange
	}

	y, m, d := now.Date()
	loc := now.Location()

	switch r {
	case RangeWeek:
		return window{year: y, month: m, day: d - 6, loc: loc, count: 7, step: daily}
	case RangeYear:
		return window{year: y, month: m - 11, day: 1, loc: loc, count: 12, step: monthly}
	}

	weeks := map[Range]int{
		RangeMonth:      5,
		RangeThreeMonth: 12,
		RangeSixMonth:   26,
	}[r]
	monday := d - isoWeekdayOffset(now)
	return window{year: y, month: m, day: monday - 7*(weeks-1), loc: loc, count: weeks, step: weekly}
}

// ResolveStart returns the inclusive lower bound of the range, equal to GenerateBuckets(r, now)[0].Start.
func ResolveStart(r Range, now time.Time) time.Time {
	return windowFor(r, now).boundary(0)
}

// ResolveWindow returns [start, end) covered by the range. end is always after now.
func ResolveWindow(r Range, now time.Time) (start, end time.Time) {
	w := windowFor(r, now)
	return w.boundary(0), w.boundary(w.count)
}
