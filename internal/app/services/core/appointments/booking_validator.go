package appointments

import (
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/dto/requests"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"errors"
	"strings"
	"time"
)

// ValidateBooking turns a raw booking request into a Booking. The slot rules are
// checked first and in a fixed order so the caller always sees the same message for
// the same input; field rules run afterwards.
func ValidateBooking(request *requests.CreateAppointment) (*models.Booking, error) {
	if request == nil {
		return nil, exceptions.ErrCannotParseJSON(errors.New("empty booking request"))
	}

	hasSession := request.Session != nil
	hasStartTime := request.StartTime != nil
	hasDoctor := request.DoctorID != nil && strings.TrimSpace(*request.DoctorID) != ""

	switch {
	case hasSession && hasStartTime:
		return nil, bookingRuleError(constvars.ErrClientBookingSessionAndStartTimeExclusive)
	case !hasSession && !hasStartTime:
		return nil, bookingRuleError(constvars.ErrClientBookingSessionOrStartTimeRequired)
	case hasStartTime && !hasDoctor:
		return nil, bookingRuleError(constvars.ErrClientBookingDoctorRequiredWithStartTime)
	}

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	var startTime time.Time
	if hasStartTime {
		parsed, err := parseStartTime(*request.StartTime)
		if err != nil {
			return nil, exceptions.ErrBookingValidation(err, constvars.ErrClientBookingStartTimeInvalid)
		}
		startTime = parsed
	}

	booking := &models.Booking{
		PatientID: request.PatientID,
		Notes:     request.Notes,
	}
	if hasStartTime {
		booking.Slot = models.SpecificSlot{
			DoctorID:  *request.DoctorID,
			StartTime: startTime,
		}
	} else {
		booking.Slot = models.GenericSession{
			Session:           models.Session(*request.Session),
			PreferredDoctorID: request.DoctorID,
		}
	}
	return booking, nil
}

func parseStartTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range constvars.BookingStartTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func bookingRuleError(rule string) error {
	return exceptions.ErrBookingValidation(errors.New(rule), rule)
}

// toAtomicRequest is the only way a request body for the atomic service is built.
func toAtomicRequest(booking *models.Booking) *requests.AtomicCreateAppointment {
	request := &requests.AtomicCreateAppointment{
		PatientID: booking.PatientID,
		Notes:     booking.Notes,
	}
	switch slot := booking.Slot.(type) {
	case models.SpecificSlot:
		doctorID := slot.DoctorID
		startTime := slot.StartTime
		request.DoctorID = &doctorID
		request.StartTime = &startTime
	case models.GenericSession:
		session := string(slot.Session)
		request.Session = &session
		request.DoctorID = slot.PreferredDoctorID
	}
	return request
}
