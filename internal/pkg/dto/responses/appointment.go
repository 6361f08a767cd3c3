package responses

import "time"

// Appointment mirrors the atomic appointment service representation. Status,
// EstimatedTime and QueuePosition are owned by other services and passed through untouched.
type Appointment struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patient_id"`
	DoctorID      *string    `json:"doctor_id"`
	StartTime     *time.Time `json:"start_time"`
	Session       *string    `json:"session,omitempty"`
	Status        string     `json:"status"`
	EstimatedTime *time.Time `json:"estimated_time"`
	QueuePosition *int       `json:"queue_position"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Health struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}
