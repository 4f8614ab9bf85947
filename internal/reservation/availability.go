package reservation

import (
	"fmt"
	"time"

	"github.com/parsuni/exam-portal-api/internal/models"
)

// Booking day window and slot width. 24 half-hour slots cover
// 08:00 through 20:00.
const (
	DayStartHour = 8
	DayEndHour   = 20
	SlotMinutes  = 30
)

// Engine computes per-room slot availability for a calendar day. Like
// the grid, every output is rebuilt whole from (date, rooms, exams).
type Engine struct {
	loc       *time.Location
	startHour int
	endHour   int
	slotMin   int
}

// NewEngine returns an Engine composing slot instants in loc with the
// default 08:00-20:00 half-hour window.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc, startHour: DayStartHour, endHour: DayEndHour, slotMin: SlotMinutes}
}

// Slots generates the ordered half-hour slot list for a booking day,
// first slot 08:00-08:30, last slot 19:30-20:00.
func (e *Engine) Slots() []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, (e.endHour-e.startHour)*60/e.slotMin)
	for hour := e.startHour; hour < e.endHour; hour++ {
		for minute := 0; minute < 60; minute += e.slotMin {
			endHour, endMinute := hour, minute+e.slotMin
			if endMinute >= 60 {
				endHour, endMinute = hour+1, endMinute-60
			}
			slots = append(slots, models.TimeSlot{
				StartHour:   hour,
				StartMinute: minute,
				EndHour:     endHour,
				EndMinute:   endMinute,
			})
		}
	}
	return slots
}

// SelectableTimes lists every half-hour boundary from 08:00 through
// 20:00 inclusive, the choices offered for reservation start and end
// times.
func (e *Engine) SelectableTimes() []string {
	times := make([]string, 0, (e.endHour-e.startHour)*60/e.slotMin+1)
	for hour := e.startHour; hour <= e.endHour; hour++ {
		for minute := 0; minute < 60; minute += e.slotMin {
			if hour == e.endHour && minute > 0 {
				break
			}
			times = append(times, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return times
}

// At composes the instant for a wall-clock hour:minute on the given
// calendar day in the engine's zone. Composition never goes through UTC
// arithmetic, so the result cannot drift by the zone offset.
func (e *Engine) At(date time.Time, hour, minute int) time.Time {
	d := date.In(e.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, e.loc)
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BuildRoomAvailability produces the slot board for one room on one
// calendar day. Only exams belonging to the room whose start falls on
// the same local calendar day participate; each slot is tested against
// them in list order and the first conflict marks the slot occupied with
// that exam's name. Zero matching exams leaves every slot available.
func (e *Engine) BuildRoomAvailability(room models.Room, date time.Time, exams []models.Exam) models.RoomAvailability {
	dayExams := make([]models.Exam, 0, len(exams))
	for _, exam := range exams {
		if exam.RoomID == room.ID && SameCalendarDay(exam.StartAt, date, e.loc) {
			dayExams = append(dayExams, exam)
		}
	}

	slots := e.Slots()
	avail := models.RoomAvailability{
		Room:  room,
		Date:  date.In(e.loc).Format("2006-01-02"),
		Slots: make([]models.TimeSlotAvailability, 0, len(slots)),
	}
	for _, slot := range slots {
		entry := models.TimeSlotAvailability{Slot: slot}
		slotStart := e.At(date, slot.StartHour, slot.StartMinute)
		slotEnd := e.At(date, slot.EndHour, slot.EndMinute)
		for _, exam := range dayExams {
			if Overlaps(slotStart, slotEnd, exam.StartAt.In(e.loc), exam.EndAt.In(e.loc)) {
				entry.Occupied = true
				entry.OccupiedBy = exam.Name
				break
			}
		}
		avail.Slots = append(avail.Slots, entry)
	}
	return avail
}

// BuildAvailability runs BuildRoomAvailability over the whole roster in
// order.
func (e *Engine) BuildAvailability(rooms []models.Room, date time.Time, exams []models.Exam) []models.RoomAvailability {
	out := make([]models.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, e.BuildRoomAvailability(room, date, exams))
	}
	return out
}

// IsRangeAvailable decides whether the half-open [start,end) wall-clock
// range is fully free in the given room board. It walks every half-hour
// boundary from start up to but excluding end; a boundary with no
// corresponding slot, or an occupied one, fails the whole range. It does
// not report which boundary failed.
func (e *Engine) IsRangeAvailable(avail models.RoomAvailability, startHour, startMinute, endHour, endMinute int) bool {
	start := startHour*60 + startMinute
	end := endHour*60 + endMinute
	if start >= end {
		return false
	}
	byStart := make(map[int]models.TimeSlotAvailability, len(avail.Slots))
	for _, s := range avail.Slots {
		byStart[s.Slot.StartHour*60+s.Slot.StartMinute] = s
	}
	for t := start; t < end; t += e.slotMin {
		slot, ok := byStart[t]
		if !ok || slot.Occupied {
			return false
		}
	}
	return true
}

// DisableUpTo marks every slot whose start is at or before the given
// start time as disabled, keeping the selectable end-time list strictly
// after the chosen start. The input is copied, not mutated.
func (e *Engine) DisableUpTo(slots []models.TimeSlotAvailability, startHour, startMinute int) []models.TimeSlotAvailability {
	limit := startHour*60 + startMinute
	out := make([]models.TimeSlotAvailability, len(slots))
	copy(out, slots)
	for i := range out {
		if out[i].Slot.StartHour*60+out[i].Slot.StartMinute <= limit {
			out[i].Disabled = true
		}
	}
	return out
}

// CorrectEndTime keeps end strictly after start: whenever end <= start
// it advances end to one hour past start, clamped to the 20:00 ceiling.
// The possibly adjusted (hour, minute) end pair is returned.
func (e *Engine) CorrectEndTime(startHour, startMinute, endHour, endMinute int) (int, int) {
	start := startHour*60 + startMinute
	end := endHour*60 + endMinute
	if end > start {
		return endHour, endMinute
	}
	corrected := start + 60
	if ceiling := e.endHour * 60; corrected > ceiling {
		corrected = ceiling
	}
	return corrected / 60, corrected % 60
}

// WithinDayWindow reports whether the wall-clock range sits inside the
// bookable 08:00-20:00 window and is aligned to the slot width.
func (e *Engine) WithinDayWindow(startHour, startMinute, endHour, endMinute int) bool {
	start := startHour*60 + startMinute
	end := endHour*60 + endMinute
	if start < e.startHour*60 || end > e.endHour*60 || start >= end {
		return false
	}
	return start%e.slotMin == 0 && end%e.slotMin == 0
}
