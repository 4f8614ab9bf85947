package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsuni/exam-portal-api/internal/models"
)

func testRoom() models.Room {
	return models.Room{ID: "room-101", Name: "کلاس ۱۰۱", Capacity: 40}
}

func exam(t *testing.T, loc *time.Location, room, name string, day time.Time, start, end string) models.Exam {
	t.Helper()
	parse := func(hm string) time.Time {
		parsed, err := time.Parse("15:04", hm)
		require.NoError(t, err)
		d := day.In(loc)
		return time.Date(d.Year(), d.Month(), d.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	}
	return models.Exam{
		ID:      "exam-" + name,
		Name:    name,
		RoomID:  room,
		StartAt: parse(start),
		EndAt:   parse(end),
	}
}

func TestSlots_TwentyFourContiguous(t *testing.T) {
	e := NewEngine(tehran(t))

	slots := e.Slots()
	require.Len(t, slots, 24)

	assert.Equal(t, models.TimeSlot{StartHour: 8, StartMinute: 0, EndHour: 8, EndMinute: 30}, slots[0])
	assert.Equal(t, models.TimeSlot{StartHour: 19, StartMinute: 30, EndHour: 20, EndMinute: 0}, slots[23])

	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		assert.Equal(t, prev.EndHour, cur.StartHour, "slot %d start hour", i)
		assert.Equal(t, prev.EndMinute, cur.StartMinute, "slot %d start minute", i)
	}
}

func TestSelectableTimes(t *testing.T) {
	e := NewEngine(tehran(t))

	times := e.SelectableTimes()
	require.Len(t, times, 25)
	assert.Equal(t, "08:00", times[0])
	assert.Equal(t, "20:00", times[24])
}

func TestBuildRoomAvailability_NoExams(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)

	avail := e.BuildRoomAvailability(testRoom(), day, nil)
	require.Len(t, avail.Slots, 24)
	assert.Equal(t, "2024-05-10", avail.Date)
	for _, s := range avail.Slots {
		assert.False(t, s.Occupied)
		assert.Empty(t, s.OccupiedBy)
	}
}

func TestBuildRoomAvailability_SingleSlotExam(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	exams := []models.Exam{exam(t, loc, "room-101", "ریاضی عمومی", day, "10:00", "10:30")}

	avail := e.BuildRoomAvailability(testRoom(), day, exams)
	for _, s := range avail.Slots {
		if s.Slot.StartHour == 10 && s.Slot.StartMinute == 0 {
			assert.True(t, s.Occupied)
			assert.Equal(t, "ریاضی عمومی", s.OccupiedBy)
			continue
		}
		assert.False(t, s.Occupied, "slot %s", s.Slot.Label())
	}
}

func TestBuildRoomAvailability_MultiSlotExamBoundaryExclusive(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	exams := []models.Exam{exam(t, loc, "room-101", "فیزیک ۲", day, "09:00", "11:00")}

	avail := e.BuildRoomAvailability(testRoom(), day, exams)
	occupied := map[string]bool{}
	for _, s := range avail.Slots {
		occupied[s.Slot.Label()] = s.Occupied
	}
	assert.False(t, occupied["08:30"])
	assert.True(t, occupied["09:00"])
	assert.True(t, occupied["09:30"])
	assert.True(t, occupied["10:00"])
	assert.True(t, occupied["10:30"])
	assert.False(t, occupied["11:00"])
}

func TestBuildRoomAvailability_FiltersRoomAndDay(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	otherDay := day.AddDate(0, 0, 1)
	exams := []models.Exam{
		exam(t, loc, "room-202", "شیمی", day, "09:00", "11:00"),
		exam(t, loc, "room-101", "شیمی", otherDay, "09:00", "11:00"),
	}

	avail := e.BuildRoomAvailability(testRoom(), day, exams)
	for _, s := range avail.Slots {
		assert.False(t, s.Occupied, "slot %s", s.Slot.Label())
	}
}

func TestBuildRoomAvailability_FirstConflictWins(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	exams := []models.Exam{
		exam(t, loc, "room-101", "آمار", day, "10:00", "11:00"),
		exam(t, loc, "room-101", "هندسه", day, "10:00", "11:00"),
	}

	avail := e.BuildRoomAvailability(testRoom(), day, exams)
	for _, s := range avail.Slots {
		if s.Occupied {
			assert.Equal(t, "آمار", s.OccupiedBy)
		}
	}
}

func TestBuildRoomAvailability_UTCStoredExam(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)

	// Stored as UTC instants; 05:30-07:30 UTC is 09:00-11:00 in Tehran.
	exams := []models.Exam{{
		ID:      "exam-utc",
		Name:    "مدار منطقی",
		RoomID:  "room-101",
		StartAt: time.Date(2024, 5, 10, 5, 30, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 5, 10, 7, 30, 0, 0, time.UTC),
	}}

	avail := e.BuildRoomAvailability(testRoom(), day, exams)
	occupied := map[string]bool{}
	for _, s := range avail.Slots {
		occupied[s.Slot.Label()] = s.Occupied
	}
	assert.True(t, occupied["09:00"])
	assert.True(t, occupied["10:30"])
	assert.False(t, occupied["11:00"])
}

func TestIsRangeAvailable(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	exams := []models.Exam{exam(t, loc, "room-101", "فیزیک ۲", day, "09:00", "11:00")}
	avail := e.BuildRoomAvailability(testRoom(), day, exams)

	tests := []struct {
		name           string
		sh, sm, eh, em int
		want           bool
	}{
		{"fully free", 11, 0, 12, 30, true},
		{"ends at exam start", 8, 0, 9, 0, true},
		{"starts at exam end", 11, 0, 11, 30, true},
		{"overlaps head", 8, 30, 9, 30, false},
		{"inside exam", 9, 30, 10, 30, false},
		{"overlaps tail", 10, 30, 12, 0, false},
		{"before window", 7, 0, 8, 30, false},
		{"past window", 19, 30, 21, 0, false},
		{"empty range", 12, 0, 12, 0, false},
		{"inverted range", 13, 0, 12, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsRangeAvailable(avail, tt.sh, tt.sm, tt.eh, tt.em))
		})
	}
}

func TestDisableUpTo(t *testing.T) {
	loc := tehran(t)
	e := NewEngine(loc)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	avail := e.BuildRoomAvailability(testRoom(), day, nil)

	out := e.DisableUpTo(avail.Slots, 10, 0)
	for _, s := range out {
		start := s.Slot.StartHour*60 + s.Slot.StartMinute
		assert.Equal(t, start <= 10*60, s.Disabled, "slot %s", s.Slot.Label())
	}
	// input untouched
	for _, s := range avail.Slots {
		assert.False(t, s.Disabled)
	}
}

func TestCorrectEndTime(t *testing.T) {
	e := NewEngine(tehran(t))

	h, m := e.CorrectEndTime(10, 0, 12, 0)
	assert.Equal(t, 12, h)
	assert.Equal(t, 0, m)

	// end at start advances one hour
	h, m = e.CorrectEndTime(10, 30, 10, 30)
	assert.Equal(t, 11, h)
	assert.Equal(t, 30, m)

	// end before start advances one hour past start
	h, m = e.CorrectEndTime(14, 0, 13, 0)
	assert.Equal(t, 15, h)
	assert.Equal(t, 0, m)

	// clamped to the day ceiling
	h, m = e.CorrectEndTime(19, 30, 19, 0)
	assert.Equal(t, 20, h)
	assert.Equal(t, 0, m)
}

func TestWithinDayWindow(t *testing.T) {
	e := NewEngine(tehran(t))

	assert.True(t, e.WithinDayWindow(8, 0, 20, 0))
	assert.True(t, e.WithinDayWindow(10, 30, 11, 0))
	assert.False(t, e.WithinDayWindow(7, 30, 9, 0))
	assert.False(t, e.WithinDayWindow(19, 30, 20, 30))
	assert.False(t, e.WithinDayWindow(10, 0, 10, 0))
	assert.False(t, e.WithinDayWindow(10, 15, 11, 0))
}
