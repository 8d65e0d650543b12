package service

import (
	"fmt"

	"autoshop/internal/db"
	"autoshop/internal/repository"

	"go.uber.org/zap"
)

// JobService runs the periodic status sweeps.
type JobService struct {
	repo repository.JobRepository
	log  *zap.SugaredLogger
}

func NewJobService(repo repository.JobRepository, log *zap.SugaredLogger) *JobService {
	return &JobService{repo: repo, log: log}
}

// CompleteElapsedAppointments moves in-progress appointments whose scheduled
// end time has passed to COMPLETED. That is the only transition the lifecycle
// allows without an admin at the keyboard, so the sweep touches nothing else.
func (s *JobService) CompleteElapsedAppointments() error {
	ids, err := s.repo.GetInProgressAppointmentIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get in-progress appointments past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	updated, err := s.repo.UpdateAppointmentStatuses(ids, db.StatusCompleted)
	if err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}
	s.log.Infow("completed elapsed appointments", "count", updated, "ids", ids)
	return nil
}
