package requests

import "time"

// CreateAppointment is the booking request as received from the client. Exactly one
// of StartTime or Session must be set, which the booking validator enforces before
// anything is sent downstream. StartTime stays a string until then so a malformed
// value is reported as a validation failure.
type CreateAppointment struct {
	PatientID string  `json:"patient_id" validate:"required,notblank"`
	DoctorID  *string `json:"doctor_id,omitempty" validate:"omitempty,notblank"`
	StartTime *string `json:"start_time,omitempty"`
	Session   *string `json:"session,omitempty" validate:"omitempty,oneof=morning afternoon"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// AtomicCreateAppointment is the body sent to POST /appointments on the atomic service.
type AtomicCreateAppointment struct {
	PatientID string     `json:"patient_id"`
	DoctorID  *string    `json:"doctor_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Session   *string    `json:"session,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}
