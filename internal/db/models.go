package db

import "time"

// Schedule is a bookable time slot with a bounded number of concurrent
// appointments. Available is a cached flag: booking flips it to false when
// the slot fills up, and an admin may force it to false as a manual
// block-out even while capacity remains.
type Schedule struct {
	ID                  int64
	ScheduleDate        time.Time
	StartTime           string // "HH:MM"
	EndTime             string // "HH:MM"
	Available           bool
	MaxAppointments     int
	CurrentAppointments int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasAvailability reports whether the slot can take another appointment.
func (s *Schedule) HasAvailability() bool {
	return s.Available && s.CurrentAppointments < s.MaxAppointments
}

// Book takes one unit of capacity. Reaching MaxAppointments flips Available
// to false. Returns false without mutating when the slot has no availability.
func (s *Schedule) Book() bool {
	if !s.HasAvailability() {
		return false
	}
	s.CurrentAppointments++
	if s.CurrentAppointments >= s.MaxAppointments {
		s.Available = false
	}
	return true
}

// Release returns one unit of capacity and reopens the slot. Releasing at
// zero is a no-op. Note: this reopens the slot even if an admin blocked it
// manually, matching the booking flow's historical behavior.
func (s *Schedule) Release() {
	if s.CurrentAppointments > 0 {
		s.CurrentAppointments--
		s.Available = true
	}
}

type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "PENDING"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
)

// transitions holds the reachable target statuses for each state.
// COMPLETED and CANCELLED are terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusCompleted},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether target is reachable from s.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// RequiresAdmin reports whether moving an appointment into target is an
// admin-only action. Cancellation is open to the owner as well.
func (target AppointmentStatus) RequiresAdmin() bool {
	switch target {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable form of the status.
func (s AppointmentStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseStatus returns the status matching the given string, or StatusPending
// when it matches nothing.
func ParseStatus(status string) AppointmentStatus {
	switch AppointmentStatus(status) {
	case StatusConfirmed:
		return StatusConfirmed
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// Appointment is a booking made by a user, optionally tied to a Schedule.
// When a schedule is booked, the date and time window are copied from it at
// booking time; later edits to the slot do not touch the appointment.
type Appointment struct {
	ID            int64
	UserID        int64
	ScheduleID    *int64
	AppointmentOn time.Time
	StartTime     string // "HH:MM"
	EndTime       string // "HH:MM"
	ServiceIDs    []int64
	Status        AppointmentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ServiceType is a catalog entry for the kinds of work the shop offers.
type ServiceType struct {
	ID   int64
	Name string
}

// User is an account holder. Admins manage slot inventory and drive the
// appointment lifecycle; regular users book and cancel their own work.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
