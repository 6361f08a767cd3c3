package events

import "time"

// AppointmentBooked is published on appointment.booked. The queue coordinator reads
// doctor_id, start_time and session to place the patient.
type AppointmentBooked struct {
	AppointmentID string     `json:"appointment_id"`
	PatientID     string     `json:"patient_id"`
	DoctorID      *string    `json:"doctor_id,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	Session       *string    `json:"session,omitempty"`
}

// AppointmentCancelled is published on appointment.cancelled.
type AppointmentCancelled struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
}
