package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"autoshop/internal/db"
	apperrors "autoshop/internal/errors"

	"github.com/lib/pq"
)

const appointmentColumns = `id, user_id, schedule_id, appointment_on, start_time, end_time, status, created_at, updated_at`

// AppointmentRepository is the durable store for appointments.
type AppointmentRepository interface {
	GetByID(id int64) (*db.Appointment, error)
	Create(a *db.Appointment) (*db.Appointment, error)
	UpdateStatus(id int64, status db.AppointmentStatus) (*db.Appointment, error)
	FindAll() ([]db.Appointment, error)
	FindByUser(userID int64) ([]db.Appointment, error)
}

type appointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(database *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: database}
}

func (r *appointmentRepository) GetByID(id int64) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	if err := r.loadServiceIDs(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts the appointment and its service selections in one
// transaction so a failed selection insert never leaves a half-saved row.
func (r *appointmentRepository) Create(a *db.Appointment) (*db.Appointment, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO appointments (user_id, schedule_id, appointment_on, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		a.UserID,
		a.ScheduleID,
		a.AppointmentOn,
		a.StartTime,
		a.EndTime,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating appointment: %w", err)
	}

	for _, serviceID := range a.ServiceIDs {
		if _, err := tx.Exec(
			`INSERT INTO appointment_services (appointment_id, service_type_id) VALUES ($1, $2)`,
			a.ID, serviceID,
		); err != nil {
			return nil, fmt.Errorf("error linking service %d to appointment %d: %w", serviceID, a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing appointment: %w", err)
	}
	return a, nil
}

func (r *appointmentRepository) UpdateStatus(id int64, status db.AppointmentStatus) (*db.Appointment, error) {
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + appointmentColumns
	a, err := scanAppointment(r.db.QueryRow(query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error updating appointment %d status: %w", id, err)
	}
	if err := r.loadServiceIDs(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *appointmentRepository) FindAll() ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY id`
	return r.queryAppointments(query)
}

func (r *appointmentRepository) FindByUser(userID int64) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE user_id = $1 ORDER BY id`
	return r.queryAppointments(query, userID)
}

func (r *appointmentRepository) queryAppointments(query string, args ...interface{}) ([]db.Appointment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.ScheduleID, &a.AppointmentOn,
			&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointment rows: %w", err)
	}

	for i := range appointments {
		if err := r.loadServiceIDs(&appointments[i]); err != nil {
			return nil, err
		}
	}
	return appointments, nil
}

func (r *appointmentRepository) loadServiceIDs(a *db.Appointment) error {
	var ids pq.Int64Array
	err := r.db.QueryRow(
		`SELECT COALESCE(array_agg(service_type_id ORDER BY service_type_id), '{}')
		 FROM appointment_services WHERE appointment_id = $1`,
		a.ID,
	).Scan(&ids)
	if err != nil {
		return fmt.Errorf("error loading services for appointment %d: %w", a.ID, err)
	}
	a.ServiceIDs = ids
	return nil
}

func scanAppointment(row *sql.Row) (*db.Appointment, error) {
	var a db.Appointment
	err := row.Scan(
		&a.ID, &a.UserID, &a.ScheduleID, &a.AppointmentOn,
		&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
