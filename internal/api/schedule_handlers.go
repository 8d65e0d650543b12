package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"autoshop/internal/db"
	"autoshop/internal/entities"
	"autoshop/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type ScheduleHandler struct {
	Service *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// ListAvailable returns bookable slots from today forward, or a single day
// when the "date" query parameter is present.
func (h *ScheduleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		schedules, err := h.Service.GetSchedulesForDate(date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, scheduleResponses(schedules))
		return
	}

	schedules, err := h.Service.GetAvailableSchedules()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponses(schedules))
}

// ListAll is the admin view: every slot from today forward, blocked or not.
func (h *ScheduleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Service.GetAllSchedules()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponses(schedules))
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleDate    string `json:"schedule_date"`
		StartTime       string `json:"start_time"`
		EndTime         string `json:"end_time"`
		MaxAppointments int    `json:"max_appointments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		http.Error(w, "Invalid schedule_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	schedule, err := h.Service.CreateSchedule(date, req.StartTime, req.EndTime, req.MaxAppointments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.NewScheduleResponse(schedule))
}

func (h *ScheduleHandler) GenerateSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		http.Error(w, "Invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		http.Error(w, "Invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	schedules, err := h.Service.GenerateDefaultSchedules(startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"generated": len(schedules),
		"schedules": scheduleResponses(schedules),
	})
}

func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
	if err != nil {
		http.Error(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteSchedule(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted"})
}

// SetAvailability is the admin block-out toggle. Reopening a full slot is
// rejected by the service with a conflict.
func (h *ScheduleHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
	if err != nil {
		http.Error(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	schedule, err := h.Service.SetAvailability(id, req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewScheduleResponse(schedule))
}

// ToggleAvailability flips the block-out flag without a request body. The
// same full-slot guard applies as in SetAvailability.
func (h *ScheduleHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := scheduleID(r)
	if err != nil {
		http.Error(w, "Invalid schedule ID", http.StatusBadRequest)
		return
	}

	schedule, err := h.Service.ToggleAvailability(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewScheduleResponse(schedule))
}

func scheduleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func scheduleResponses(schedules []db.Schedule) []entities.ScheduleResponse {
	responses := make([]entities.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, entities.NewScheduleResponse(&schedules[i]))
	}
	return responses
}
