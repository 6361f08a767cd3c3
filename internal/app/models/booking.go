package models

import "time"

// Booking is a validated booking request. Slot is always one of SpecificSlot or
// GenericSession, so the time/session exclusivity holds by construction.
type Booking struct {
	PatientID string
	Notes     *string
	Slot      BookingSlot
}

type BookingSlot interface {
	bookingSlot()
}

// SpecificSlot books an exact timeslot with a named doctor.
type SpecificSlot struct {
	DoctorID  string
	StartTime time.Time
}

// GenericSession books a coarse daypart. PreferredDoctorID is optional.
type GenericSession struct {
	Session           Session
	PreferredDoctorID *string
}

func (SpecificSlot) bookingSlot()   {}
func (GenericSession) bookingSlot() {}

type Session string

const (
	SessionMorning   Session = "morning"
	SessionAfternoon Session = "afternoon"
)
