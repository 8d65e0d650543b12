package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autoshop/internal/db"
	apperrors "autoshop/internal/errors"
)

const scheduleColumns = `id, schedule_date, start_time, end_time, available, max_appointments, current_appointments, created_at, updated_at`

// ScheduleRepository is the durable store for schedule slots.
type ScheduleRepository interface {
	GetByID(id int64) (*db.Schedule, error)
	Create(s *db.Schedule) (*db.Schedule, error)
	Update(s *db.Schedule) (*db.Schedule, error)
	Delete(id int64) error
	FindByDate(date time.Time) ([]db.Schedule, error)
	FindAvailableFrom(date time.Time) ([]db.Schedule, error)
	FindAllFrom(date time.Time) ([]db.Schedule, error)
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(database *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: database}
}

func (r *scheduleRepository) GetByID(id int64) (*db.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying schedule %d: %w", id, err)
	}
	return s, nil
}

func (r *scheduleRepository) Create(s *db.Schedule) (*db.Schedule, error) {
	query := `
		INSERT INTO schedules (schedule_date, start_time, end_time, available, max_appointments, current_appointments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		s.ScheduleDate,
		s.StartTime,
		s.EndTime,
		s.Available,
		s.MaxAppointments,
		s.CurrentAppointments,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating schedule: %w", err)
	}
	return s, nil
}

func (r *scheduleRepository) Update(s *db.Schedule) (*db.Schedule, error) {
	query := `
		UPDATE schedules
		SET schedule_date = $1, start_time = $2, end_time = $3, available = $4,
			max_appointments = $5, current_appointments = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	err := r.db.QueryRow(query,
		s.ScheduleDate,
		s.StartTime,
		s.EndTime,
		s.Available,
		s.MaxAppointments,
		s.CurrentAppointments,
		s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule %d: %w", s.ID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error updating schedule %d: %w", s.ID, err)
	}
	return s, nil
}

func (r *scheduleRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting schedule %d: %w", id, err)
	}
	return nil
}

func (r *scheduleRepository) FindByDate(date time.Time) ([]db.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE schedule_date = $1 ORDER BY start_time`
	return r.querySchedules(query, date)
}

func (r *scheduleRepository) FindAvailableFrom(date time.Time) ([]db.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE available AND schedule_date >= $1
		ORDER BY schedule_date, start_time`
	return r.querySchedules(query, date)
}

func (r *scheduleRepository) FindAllFrom(date time.Time) ([]db.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE schedule_date >= $1
		ORDER BY schedule_date, start_time`
	return r.querySchedules(query, date)
}

func (r *scheduleRepository) querySchedules(query string, args ...interface{}) ([]db.Schedule, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying schedules: %w", err)
	}
	defer rows.Close()

	var schedules []db.Schedule
	for rows.Next() {
		var s db.Schedule
		if err := rows.Scan(
			&s.ID, &s.ScheduleDate, &s.StartTime, &s.EndTime,
			&s.Available, &s.MaxAppointments, &s.CurrentAppointments,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating schedule rows: %w", err)
	}
	return schedules, nil
}

func scanSchedule(row *sql.Row) (*db.Schedule, error) {
	var s db.Schedule
	err := row.Scan(
		&s.ID, &s.ScheduleDate, &s.StartTime, &s.EndTime,
		&s.Available, &s.MaxAppointments, &s.CurrentAppointments,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
