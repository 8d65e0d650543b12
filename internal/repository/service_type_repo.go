package repository

import (
	"database/sql"
	"fmt"

	"autoshop/internal/db"
)

// ServiceTypeRepository is the read-mostly catalog of offered services.
type ServiceTypeRepository interface {
	FindAll() ([]db.ServiceType, error)
}

type serviceTypeRepository struct {
	db *sql.DB
}

func NewServiceTypeRepository(database *sql.DB) ServiceTypeRepository {
	return &serviceTypeRepository{db: database}
}

func (r *serviceTypeRepository) FindAll() ([]db.ServiceType, error) {
	rows, err := r.db.Query(`SELECT id, name FROM service_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying service types: %w", err)
	}
	defer rows.Close()

	var types []db.ServiceType
	for rows.Next() {
		var st db.ServiceType
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("error scanning service type: %w", err)
		}
		types = append(types, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating service type rows: %w", err)
	}
	return types, nil
}
