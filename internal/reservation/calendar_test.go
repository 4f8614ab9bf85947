package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsuni/exam-portal-api/internal/models"
)

func tehran(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)
	return loc
}

func TestMonthGrid_CellCountsAndPadding(t *testing.T) {
	cal := NewCalendar(tehran(t))

	for year := 1402; year <= 1404; year++ {
		for month := 1; month <= 12; month++ {
			grid := cal.MonthGrid(year, month, GridOptions{Now: time.Now()})

			wantBlanks := cal.LeadingBlanks(year, month)
			wantDays := cal.MonthLength(year, month)

			blanks := 0
			for _, d := range grid.Days {
				if d.IsBlank() {
					blanks++
				}
			}
			assert.Equal(t, wantBlanks, blanks, "%d/%d leading blanks", year, month)
			assert.Equal(t, wantDays, len(grid.Days)-blanks, "%d/%d populated cells", year, month)

			// padding formula directly against the Gregorian weekday
			first := cal.ToGregorian(year, month, 1)
			assert.Equal(t, (int(first.Weekday())+1)%7, wantBlanks)
		}
	}
}

func TestMonthGrid_KnownMonth(t *testing.T) {
	cal := NewCalendar(tehran(t))

	// 1403/01/01 = 2024-03-20, a Wednesday, so four leading blanks
	// (Sat, Sun, Mon, Tue).
	grid := cal.MonthGrid(1403, 1, GridOptions{Now: time.Now()})
	require.Len(t, grid.Days, 4+31)
	for i := 0; i < 4; i++ {
		assert.True(t, grid.Days[i].IsBlank())
	}

	day1 := grid.Days[4]
	require.NotNil(t, day1.Gregorian)
	assert.Equal(t, 1, day1.Day)
	assert.Equal(t, "1403/01/01", day1.JalaaliDate)
	assert.Equal(t, "2024-03-20", day1.Gregorian.Format("2006-01-02"))
}

func TestMonthGrid_TodaySelectionAndAnalysis(t *testing.T) {
	cal := NewCalendar(tehran(t))

	now := cal.ToGregorian(1403, 2, 15)
	selected := cal.ToGregorian(1403, 2, 20)
	analyses := []models.DateAnalysis{{
		Date:                cal.ToGregorian(1403, 2, 10).Format("2006-01-02"),
		RecommendationGroup: models.RecommendationExcellent,
	}}

	grid := cal.MonthGrid(1403, 2, GridOptions{Now: now, Selected: selected, Analyses: analyses})

	var today, picked, annotated int
	for _, d := range grid.Days {
		if d.IsToday {
			today++
			assert.Equal(t, 15, d.Day)
		}
		if d.IsSelected {
			picked++
			assert.Equal(t, 20, d.Day)
		}
		if d.Analysis != nil {
			annotated++
			assert.Equal(t, 10, d.Day)
			assert.Equal(t, models.RecommendationExcellent, d.Analysis.RecommendationGroup)
		}
	}
	assert.Equal(t, 1, today)
	assert.Equal(t, 1, picked)
	assert.Equal(t, 1, annotated)
}

func TestMonthGrid_FreshSliceEachCall(t *testing.T) {
	cal := NewCalendar(tehran(t))

	a := cal.MonthGrid(1403, 5, GridOptions{Now: time.Now()})
	b := cal.MonthGrid(1403, 5, GridOptions{Now: time.Now()})
	require.NotEmpty(t, a.Days)

	a.Days[len(a.Days)-1].IsSelected = true
	assert.False(t, b.Days[len(b.Days)-1].IsSelected)
}

func TestJalaaliRoundTrip(t *testing.T) {
	cal := NewCalendar(tehran(t))

	for month := 1; month <= 12; month++ {
		for day := 1; day <= cal.MonthLength(1403, month); day++ {
			g := cal.ToGregorian(1403, month, day)
			y2, m2, d2 := cal.ToJalaali(g)
			require.Equal(t, 1403, y2, "1403/%02d/%02d", month, day)
			require.Equal(t, month, m2, "1403/%02d/%02d", month, day)
			require.Equal(t, day, d2, "1403/%02d/%02d", month, day)
		}
	}
}

func TestMonthNavigation(t *testing.T) {
	y, m := PrevMonth(1403, 1)
	assert.Equal(t, 1402, y)
	assert.Equal(t, 12, m)

	y, m = NextMonth(1403, 12)
	assert.Equal(t, 1404, y)
	assert.Equal(t, 1, m)

	y, m = 1403, 7
	for i := 0; i < 10; i++ {
		y, m = NextMonth(y, m)
	}
	for i := 0; i < 10; i++ {
		y, m = PrevMonth(y, m)
	}
	assert.Equal(t, 1403, y)
	assert.Equal(t, 7, m)

	y, m = PrevYear(1403, 6)
	assert.Equal(t, 1402, y)
	assert.Equal(t, 6, m)

	y, m = NextYear(1403, 6)
	assert.Equal(t, 1404, y)
	assert.Equal(t, 6, m)
}

func TestMonthLength(t *testing.T) {
	cal := NewCalendar(tehran(t))

	assert.Equal(t, 31, cal.MonthLength(1403, 1))
	assert.Equal(t, 31, cal.MonthLength(1403, 6))
	assert.Equal(t, 30, cal.MonthLength(1403, 7))
	assert.Equal(t, 30, cal.MonthLength(1403, 11))
	// 1403 is a leap year, 1402 is not.
	assert.Equal(t, 30, cal.MonthLength(1403, 12))
	assert.Equal(t, 29, cal.MonthLength(1402, 12))
}

func TestWeekColor(t *testing.T) {
	assert.Equal(t, 0, WeekColor(1))
	assert.Equal(t, 0, WeekColor(7))
	assert.Equal(t, 1, WeekColor(8))
	assert.Equal(t, 1, WeekColor(14))
	assert.Equal(t, 2, WeekColor(15))
	assert.Equal(t, 0, WeekColor(22))
	assert.Equal(t, 1, WeekColor(29))
}

func TestSameCalendarDay(t *testing.T) {
	loc := tehran(t)

	morning := time.Date(2024, 5, 10, 0, 30, 0, 0, loc)
	night := time.Date(2024, 5, 10, 23, 30, 0, 0, loc)
	assert.True(t, SameCalendarDay(morning, night, loc))

	// The same instant expressed in UTC is still the same Tehran day.
	assert.True(t, SameCalendarDay(morning.UTC(), night, loc))

	next := time.Date(2024, 5, 11, 0, 0, 0, 0, loc)
	assert.False(t, SameCalendarDay(night, next, loc))
}
