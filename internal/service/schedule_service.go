package service

import (
	"fmt"
	"time"

	"autoshop/internal/db"
	apperrors "autoshop/internal/errors"
	"autoshop/internal/repository"

	"go.uber.org/zap"
)

// Default generation template: seven one-hour slots per weekday, two
// appointments each.
var defaultSlotTimes = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}

const (
	defaultSlotDuration = time.Hour
	defaultSlotCapacity = 2
)

// ScheduleService owns the slot inventory: capacity arbitration on a single
// slot, admin CRUD, listings, and bulk generation.
type ScheduleService struct {
	repo  repository.ScheduleRepository
	locks *slotLocks
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewScheduleService(repo repository.ScheduleRepository, log *zap.SugaredLogger) *ScheduleService {
	return &ScheduleService{
		repo:  repo,
		locks: newSlotLocks(),
		log:   log,
		now:   time.Now,
	}
}

// Reserve takes one unit of capacity on the schedule. A full or manually
// blocked slot fails with ErrSlotFull; a missing one with ErrNotFound.
func (s *ScheduleService) Reserve(scheduleID int64) (*db.Schedule, error) {
	unlock := s.locks.Lock(scheduleID)
	defer unlock()

	schedule, err := s.repo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if !schedule.Book() {
		return nil, fmt.Errorf("schedule %d has no availability: %w", scheduleID, apperrors.ErrSlotFull)
	}
	return s.repo.Update(schedule)
}

// Release returns one unit of capacity. Releasing a schedule with no booked
// appointments is a no-op, so double cancellation stays harmless.
func (s *ScheduleService) Release(scheduleID int64) (*db.Schedule, error) {
	unlock := s.locks.Lock(scheduleID)
	defer unlock()

	schedule, err := s.repo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.CurrentAppointments == 0 {
		return schedule, nil
	}
	schedule.Release()
	return s.repo.Update(schedule)
}

// SetAvailability is the admin override. Blocking always succeeds; reopening
// a slot that is already at capacity fails with ErrSlotFull.
func (s *ScheduleService) SetAvailability(scheduleID int64, available bool) (*db.Schedule, error) {
	unlock := s.locks.Lock(scheduleID)
	defer unlock()
	return s.setAvailabilityLocked(scheduleID, func(*db.Schedule) bool { return available })
}

// ToggleAvailability flips the availability flag, with the same guard as
// SetAvailability when the flip would reopen the slot.
func (s *ScheduleService) ToggleAvailability(scheduleID int64) (*db.Schedule, error) {
	unlock := s.locks.Lock(scheduleID)
	defer unlock()
	return s.setAvailabilityLocked(scheduleID, func(sched *db.Schedule) bool { return !sched.Available })
}

func (s *ScheduleService) setAvailabilityLocked(scheduleID int64, target func(*db.Schedule) bool) (*db.Schedule, error) {
	schedule, err := s.repo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	available := target(schedule)
	if available && schedule.CurrentAppointments >= schedule.MaxAppointments {
		return nil, fmt.Errorf("schedule %d is at capacity, cannot reopen: %w", scheduleID, apperrors.ErrSlotFull)
	}
	schedule.Available = available
	return s.repo.Update(schedule)
}

// GenerateDefaultSchedules creates slots for every weekday in the inclusive
// date range using the default template. A reversed range yields an empty
// result, not an error.
func (s *ScheduleService) GenerateDefaultSchedules(startDate, endDate time.Time) ([]db.Schedule, error) {
	var generated []db.Schedule
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		for _, startTime := range defaultSlotTimes {
			endTime, err := addDuration(startTime, defaultSlotDuration)
			if err != nil {
				return nil, err
			}
			schedule := &db.Schedule{
				ScheduleDate:        date,
				StartTime:           startTime,
				EndTime:             endTime,
				Available:           true,
				MaxAppointments:     defaultSlotCapacity,
				CurrentAppointments: 0,
			}
			saved, err := s.repo.Create(schedule)
			if err != nil {
				return nil, fmt.Errorf("error generating schedule for %s %s: %w",
					date.Format("2006-01-02"), startTime, err)
			}
			generated = append(generated, *saved)
		}
	}
	s.log.Infow("generated default schedules",
		"from", startDate.Format("2006-01-02"),
		"to", endDate.Format("2006-01-02"),
		"count", len(generated))
	return generated, nil
}

// CreateSchedule is the admin manual-entry path for a single slot.
func (s *ScheduleService) CreateSchedule(date time.Time, startTime, endTime string, maxAppointments int) (*db.Schedule, error) {
	if startTime >= endTime {
		return nil, fmt.Errorf("start time %q must be before end time %q", startTime, endTime)
	}
	if maxAppointments <= 0 {
		maxAppointments = 1
	}
	return s.repo.Create(&db.Schedule{
		ScheduleDate:        date,
		StartTime:           startTime,
		EndTime:             endTime,
		Available:           true,
		MaxAppointments:     maxAppointments,
		CurrentAppointments: 0,
	})
}

func (s *ScheduleService) GetByID(scheduleID int64) (*db.Schedule, error) {
	return s.repo.GetByID(scheduleID)
}

// DeleteSchedule removes a slot. Appointments keep their copied time window,
// so history survives, but their schedule reference dangles afterwards.
func (s *ScheduleService) DeleteSchedule(scheduleID int64) error {
	return s.repo.Delete(scheduleID)
}

// GetAvailableSchedules lists bookable slots from today forward.
func (s *ScheduleService) GetAvailableSchedules() ([]db.Schedule, error) {
	return s.repo.FindAvailableFrom(s.today())
}

// GetAllSchedules lists every slot from today forward, the admin view.
func (s *ScheduleService) GetAllSchedules() ([]db.Schedule, error) {
	return s.repo.FindAllFrom(s.today())
}

func (s *ScheduleService) GetSchedulesForDate(date time.Time) ([]db.Schedule, error) {
	return s.repo.FindByDate(date)
}

func (s *ScheduleService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func addDuration(startTime string, d time.Duration) (string, error) {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return "", fmt.Errorf("invalid slot time %q: %w", startTime, err)
	}
	return t.Add(d).Format("15:04"), nil
}
