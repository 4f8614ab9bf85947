// Package reservation implements the Jalaali calendar generator and the
// room availability engine behind the exam reservation flow. Everything
// here is a pure function of its inputs: grids and slot boards are
// rebuilt in full, never patched in place.
package reservation

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"

	"github.com/parsuni/exam-portal-api/internal/models"
)

// Calendar converts between Jalaali and Gregorian dates and lays out
// month grids. All wall-clock composition happens in a single configured
// location so that "same day" always means the same local day.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a Calendar fixed to loc. A nil loc falls back to UTC.
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the wall-clock zone the calendar operates in.
func (c *Calendar) Location() *time.Location { return c.loc }

// MonthLength returns the number of days in the given Jalaali month.
// Conversion is delegated to the persian-calendar library, including the
// month-12 leap rule.
func (c *Calendar) MonthLength(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if ptime.Date(year, ptime.Esfand, 1, 0, 0, 0, 0, c.loc).IsLeap() {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// ToGregorian converts a Jalaali (year, month, day) to the Gregorian
// midnight of that day in the calendar's zone.
func (c *Calendar) ToGregorian(year, month, day int) time.Time {
	return ptime.Date(year, ptime.Month(month), day, 0, 0, 0, 0, c.loc).Time()
}

// ToJalaali converts an instant to its Jalaali (year, month, day) in the
// calendar's zone.
func (c *Calendar) ToJalaali(t time.Time) (year, month, day int) {
	pt := ptime.New(t.In(c.loc))
	return pt.Year(), int(pt.Month()), pt.Day()
}

// FormatJalaali renders an instant as a zero-padded YYYY/MM/DD Jalaali
// date string.
func (c *Calendar) FormatJalaali(t time.Time) string {
	y, m, d := c.ToJalaali(t)
	return fmt.Sprintf("%04d/%02d/%02d", y, m, d)
}

// MonthName returns the Persian name of a Jalaali month (1-12).
func (c *Calendar) MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return ptime.Month(month).String()
}

// WeekdayName returns the Persian weekday name of an instant in the
// calendar's zone.
func (c *Calendar) WeekdayName(t time.Time) string {
	return ptime.New(t.In(c.loc)).Weekday().String()
}

// LeadingBlanks returns how many placeholder cells precede day 1 of the
// given Jalaali month in a week that starts on Saturday. Gregorian
// weekdays run Sunday=0..Saturday=6, so Saturday maps to zero under
// (weekday+1) mod 7.
func (c *Calendar) LeadingBlanks(year, month int) int {
	first := c.ToGregorian(year, month, 1)
	return (int(first.Weekday()) + 1) % 7
}

// WeekColor assigns one of three alternating colors to a Jalaali
// day-of-month, switching every seven days.
func WeekColor(day int) int {
	if day < 1 {
		return 0
	}
	return ((day - 1) / 7) % 3
}

// GridOptions carries the per-request state a month grid is decorated
// with. Now drives the isToday and past flags; Selected, when non-zero,
// marks the matching cell; Analyses annotate cells by exact Gregorian
// date match.
type GridOptions struct {
	Now      time.Time
	Selected time.Time
	Analyses []models.DateAnalysis
}

// MonthGrid lays out the given Jalaali month as an ordered sequence of
// cells, week rows starting on Saturday. Leading placeholders carry
// Day == 0. The returned slice is freshly allocated on every call.
func (c *Calendar) MonthGrid(year, month int, opts GridOptions) models.MonthGrid {
	length := c.MonthLength(year, month)
	blanks := c.LeadingBlanks(year, month)

	grid := models.MonthGrid{
		Year:      year,
		Month:     month,
		MonthName: c.MonthName(month),
		Days:      make([]models.CalendarDay, 0, blanks+length),
	}
	for i := 0; i < blanks; i++ {
		grid.Days = append(grid.Days, models.CalendarDay{})
	}

	byDate := make(map[string]*models.DateAnalysis, len(opts.Analyses))
	for i := range opts.Analyses {
		byDate[opts.Analyses[i].Date] = &opts.Analyses[i]
	}

	now := opts.Now.In(c.loc)
	todayY, todayM, todayD := c.ToJalaali(now)
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)

	for day := 1; day <= length; day++ {
		g := c.ToGregorian(year, month, day)
		cell := models.CalendarDay{
			Day:          day,
			JalaaliYear:  year,
			JalaaliMonth: month,
			JalaaliDate:  fmt.Sprintf("%04d/%02d/%02d", year, month, day),
			Gregorian:    &g,
			WeekColor:    WeekColor(day),
			IsToday:      day == todayD && month == todayM && year == todayY,
			IsFriday:     g.Weekday() == time.Friday,
			IsPast:       g.Before(startOfToday),
		}
		if !opts.Selected.IsZero() {
			cell.IsSelected = SameCalendarDay(g, opts.Selected, c.loc)
		}
		if a, ok := byDate[g.Format("2006-01-02")]; ok {
			cell.Analysis = a
		}
		grid.Days = append(grid.Days, cell)
	}
	return grid
}

// PrevMonth steps back one Jalaali month, wrapping month 1 to month 12
// of the previous year.
func PrevMonth(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonth steps forward one Jalaali month, wrapping month 12 to month 1
// of the next year.
func NextMonth(year, month int) (int, int) {
	if month >= 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PrevYear steps back one year keeping the month.
func PrevYear(year, month int) (int, int) { return year - 1, month }

// NextYear steps forward one year keeping the month.
func NextYear(year, month int) (int, int) { return year + 1, month }

// SameCalendarDay reports whether two instants fall on the same local
// calendar day in loc. Comparison is by year/month/day components, not by
// a timestamp range, so wall-clock day semantics hold across zones.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
