package repository

import (
	"database/sql"
	"fmt"

	"autoshop/internal/db"

	"github.com/lib/pq"
)

// JobRepository backs the background status sweeps.
type JobRepository interface {
	GetInProgressAppointmentIDsPastEndTime() ([]int64, error)
	UpdateAppointmentStatuses(ids []int64, status db.AppointmentStatus) (int64, error)
}

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(database *sql.DB) JobRepository {
	return &jobRepository{db: database}
}

// GetInProgressAppointmentIDsPastEndTime finds in-progress appointments whose
// scheduled end has already passed.
func (r *jobRepository) GetInProgressAppointmentIDsPastEndTime() ([]int64, error) {
	query := `
		SELECT id FROM appointments
		WHERE status = 'IN_PROGRESS'
		AND appointment_on + NULLIF(end_time, '')::time < NOW()`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying in-progress appointments past end time: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateAppointmentStatuses moves the given appointments to the new status and
// returns how many rows changed.
func (r *jobRepository) UpdateAppointmentStatuses(ids []int64, status db.AppointmentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.db.Exec(query, status, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating appointment statuses: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return rowsAffected, nil
}
