package entities

// BookingRequest is the payload for creating an appointment. ScheduleID is
// optional: when present the slot's date and time window are copied onto the
// appointment, otherwise the caller supplies the fields directly.
type BookingRequest struct {
	ScheduleID    *int64  `json:"schedule_id,omitempty"`
	ServiceIDs    []int64 `json:"service_ids"`
	AppointmentOn string  `json:"appointment_on,omitempty"` // "2006-01-02"
	StartTime     string  `json:"start_time,omitempty"`     // "HH:MM"
	EndTime       string  `json:"end_time,omitempty"`       // "HH:MM"
}
