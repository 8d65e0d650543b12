package service

import (
	"fmt"
	"sort"
	"time"

	"autoshop/internal/db"
	"autoshop/internal/entities"
	apperrors "autoshop/internal/errors"
	"autoshop/internal/repository"

	"go.uber.org/zap"
)

// BookingInput is a validated booking request. When ScheduleID is set the
// date and time fields are ignored and copied from the slot instead.
type BookingInput struct {
	ScheduleID *int64
	ServiceIDs []int64
	On         time.Time
	StartTime  string
	EndTime    string
}

// AppointmentService drives appointments through their status lifecycle and
// coordinates slot capacity with the schedule service.
type AppointmentService struct {
	repo      repository.AppointmentRepository
	schedules *ScheduleService
	log       *zap.SugaredLogger
}

func NewAppointmentService(repo repository.AppointmentRepository, schedules *ScheduleService, log *zap.SugaredLogger) *AppointmentService {
	return &AppointmentService{
		repo:      repo,
		schedules: schedules,
		log:       log,
	}
}

// Book creates a PENDING appointment for the actor. With a schedule id the
// slot is reserved first and its window copied onto the appointment, so a
// full slot fails the whole booking before anything is saved.
func (s *AppointmentService) Book(actor entities.Actor, input BookingInput) (*db.Appointment, error) {
	appointment := &db.Appointment{
		UserID:        actor.UserID,
		ScheduleID:    input.ScheduleID,
		AppointmentOn: input.On,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		ServiceIDs:    input.ServiceIDs,
		Status:        db.StatusPending,
	}

	if input.ScheduleID != nil {
		schedule, err := s.schedules.Reserve(*input.ScheduleID)
		if err != nil {
			return nil, err
		}
		appointment.AppointmentOn = schedule.ScheduleDate
		appointment.StartTime = schedule.StartTime
		appointment.EndTime = schedule.EndTime
	}

	saved, err := s.repo.Create(appointment)
	if err != nil {
		// Give reserved capacity back before failing the booking.
		if input.ScheduleID != nil {
			if _, relErr := s.schedules.Release(*input.ScheduleID); relErr != nil {
				s.log.Errorw("failed to release schedule after booking error",
					"schedule_id", *input.ScheduleID, "error", relErr)
			}
		}
		return nil, err
	}

	s.log.Infow("appointment booked",
		"appointment_id", saved.ID, "user_id", actor.UserID, "schedule_id", input.ScheduleID)
	return saved, nil
}

// Transition moves an appointment to the target status. Confirming, starting
// and completing are admin actions; cancelling is open to the owner too.
// Cancelling an appointment that holds a slot always frees its capacity.
func (s *AppointmentService) Transition(appointmentID int64, target db.AppointmentStatus, actor entities.Actor) (*db.Appointment, error) {
	appointment, err := s.repo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}

	if target.RequiresAdmin() && !actor.IsAdmin {
		return nil, fmt.Errorf("status %s requires admin: %w", target, apperrors.ErrForbidden)
	}
	if target == db.StatusCancelled && !actor.IsAdmin && appointment.UserID != actor.UserID {
		return nil, fmt.Errorf("appointment %d belongs to another user: %w", appointmentID, apperrors.ErrForbidden)
	}
	if !appointment.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("cannot move appointment %d from %s to %s: %w",
			appointmentID, appointment.Status, target, apperrors.ErrInvalidTransition)
	}

	if target == db.StatusCancelled && appointment.ScheduleID != nil {
		if _, err := s.schedules.Release(*appointment.ScheduleID); err != nil {
			return nil, fmt.Errorf("error releasing schedule %d: %w", *appointment.ScheduleID, err)
		}
	}

	updated, err := s.repo.UpdateStatus(appointmentID, target)
	if err != nil {
		return nil, err
	}
	s.log.Infow("appointment transitioned",
		"appointment_id", appointmentID, "from", appointment.Status, "to", target)
	return updated, nil
}

// GetForActor returns a single appointment, restricted to its owner unless
// the actor is an admin.
func (s *AppointmentService) GetForActor(appointmentID int64, actor entities.Actor) (*db.Appointment, error) {
	appointment, err := s.repo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && appointment.UserID != actor.UserID {
		return nil, fmt.Errorf("appointment %d belongs to another user: %w", appointmentID, apperrors.ErrForbidden)
	}
	return appointment, nil
}

// ListForActor returns all appointments for admins and only the actor's own
// otherwise, ordered by date then start time with insertion order breaking
// ties.
func (s *AppointmentService) ListForActor(actor entities.Actor) []db.Appointment {
	var rows []db.Appointment
	var err error
	if actor.IsAdmin {
		rows, err = s.repo.FindAll()
	} else {
		rows, err = s.repo.FindByUser(actor.UserID)
	}

	appointments := s.listOrEmpty(rows, err)
	sort.SliceStable(appointments, func(i, j int) bool {
		if !appointments[i].AppointmentOn.Equal(appointments[j].AppointmentOn) {
			return appointments[i].AppointmentOn.Before(appointments[j].AppointmentOn)
		}
		return appointments[i].StartTime < appointments[j].StartTime
	})
	return appointments
}

// listOrEmpty is the read-path degradation policy: store failures while
// listing are logged and collapse to an empty result instead of failing the
// page. Write-path failures are never treated this way.
func (s *AppointmentService) listOrEmpty(rows []db.Appointment, err error) []db.Appointment {
	if err != nil {
		s.log.Errorw("listing appointments failed, returning empty result", "error", err)
		return []db.Appointment{}
	}
	return rows
}
