package entities

import (
	"fmt"
	"time"

	"autoshop/internal/db"
)

type ScheduleResponse struct {
	ID                  int64  `json:"id"`
	ScheduleDate        string `json:"schedule_date"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	TimeRange           string `json:"time_range"`
	Available           bool   `json:"available"`
	MaxAppointments     int    `json:"max_appointments"`
	CurrentAppointments int    `json:"current_appointments"`
}

func NewScheduleResponse(s *db.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:                  s.ID,
		ScheduleDate:        s.ScheduleDate.Format("2006-01-02"),
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		TimeRange:           fmt.Sprintf("%s - %s", s.StartTime, s.EndTime),
		Available:           s.Available,
		MaxAppointments:     s.MaxAppointments,
		CurrentAppointments: s.CurrentAppointments,
	}
}

type AppointmentResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ScheduleID    *int64    `json:"schedule_id,omitempty"`
	AppointmentOn string    `json:"appointment_on"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	ServiceIDs    []int64   `json:"service_ids"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewAppointmentResponse(a *db.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		ScheduleID:    a.ScheduleID,
		AppointmentOn: a.AppointmentOn.Format("2006-01-02"),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		ServiceIDs:    a.ServiceIDs,
		Status:        string(a.Status),
		StatusDisplay: a.Status.DisplayName(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
