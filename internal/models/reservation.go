package models

import (
	"fmt"
	"time"
)

// CalendarDay is one cell of the month grid. Blank padding cells carry
// Day == 0, no Gregorian date, and no analysis.
type CalendarDay struct {
	Day          int           `json:"day"`
	JalaaliYear  int           `json:"jalaaliYear,omitempty"`
	JalaaliMonth int           `json:"jalaaliMonth,omitempty"`
	JalaaliDate  string        `json:"jalaaliDate,omitempty"`
	Gregorian    *time.Time    `json:"gregorianDate,omitempty"`
	WeekColor    int           `json:"weekColor"`
	IsToday      bool          `json:"isToday"`
	IsSelected   bool          `json:"isSelected"`
	IsFriday     bool          `json:"isFriday"`
	IsPast       bool          `json:"isPast"`
	Analysis     *DateAnalysis `json:"analysis,omitempty"`
}

// IsBlank reports whether the cell is a leading placeholder.
func (d CalendarDay) IsBlank() bool { return d.Day == 0 }

// MonthGrid is the full Jalaali month view for the reservation calendar.
type MonthGrid struct {
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	MonthName string        `json:"monthName"`
	Days      []CalendarDay `json:"days"`
}

// TimeSlot is a half-hour wall-clock window within the booking day.
type TimeSlot struct {
	StartHour   int `json:"startHour"`
	StartMinute int `json:"startMinute"`
	EndHour     int `json:"endHour"`
	EndMinute   int `json:"endMinute"`
}

// Label returns the slot start in HH:MM form.
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%02d:%02d", s.StartHour, s.StartMinute)
}

// TimeSlotAvailability is one slot of one room's day, marked occupied
// when an existing exam overlaps it. OccupiedBy names the first exam
// found to conflict.
type TimeSlotAvailability struct {
	Slot       TimeSlot `json:"slot"`
	Occupied   bool     `json:"occupied"`
	OccupiedBy string   `json:"occupiedBy,omitempty"`
	Disabled   bool     `json:"disabled"`
}

// RoomAvailability is the full slot board for a single room on a day.
type RoomAvailability struct {
	Room  Room                   `json:"room"`
	Date  string                 `json:"date"`
	Slots []TimeSlotAvailability `json:"slots"`
}

// CreateExamRequest is the reservation payload. Times are wall-clock
// strings (HH:MM) in the service timezone on the given Gregorian date.
type CreateExamRequest struct {
	Name      string `json:"name" validate:"required,min=3,max=150"`
	CourseID  string `json:"course_id" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// AvailabilityQuery carries the calendar availability filters.
type AvailabilityQuery struct {
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	CourseID string `form:"courseId" validate:"omitempty"`
}
