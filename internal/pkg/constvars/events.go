package constvars

const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
)

const (
	ExchangeKindTopic = "topic"

	EventHeaderSchemaVersion = "schema_version"
	EventSchemaVersion       = 1
)
