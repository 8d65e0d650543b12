package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"autoshop/internal/auth"
	"autoshop/internal/db"
	"autoshop/internal/entities"
	apperrors "autoshop/internal/errors"
	"autoshop/internal/service"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	Service *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// Create books an appointment for the authenticated user, either against a
// schedule slot or ad hoc with caller-supplied date and times.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrAuthRequired)
		return
	}

	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := service.BookingInput{
		ScheduleID: req.ScheduleID,
		ServiceIDs: req.ServiceIDs,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.ScheduleID == nil {
		on, err := time.Parse(dateLayout, req.AppointmentOn)
		if err != nil {
			http.Error(w, "Invalid appointment_on, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		input.On = on
	}

	appointment, err := h.Service.Book(actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.NewAppointmentResponse(appointment))
}

// List returns the actor's appointments: everything for admins, own bookings
// for everyone else.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrAuthRequired)
		return
	}

	appointments := h.Service.ListForActor(actor)
	responses := make([]entities.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, entities.NewAppointmentResponse(&appointments[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrAuthRequired)
		return
	}
	id, err := appointmentID(r)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	appointment, err := h.Service.GetForActor(id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewAppointmentResponse(appointment))
}

// Confirm, Start, Complete and Cancel all funnel into the lifecycle engine;
// authorization lives there, not in the routing layer.
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, db.StatusConfirmed)
}

func (h *AppointmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, db.StatusInProgress)
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, db.StatusCompleted)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, db.StatusCancelled)
}

// Transition is the generic form used by admin tooling: the target status
// arrives as a string in the request body. Unrecognized statuses parse to
// PENDING, which no state can transition to, so they fail validation.
func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.transition(w, r, db.ParseStatus(req.Status))
}

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, target db.AppointmentStatus) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrAuthRequired)
		return
	}
	id, err := appointmentID(r)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	appointment, err := h.Service.Transition(id, target, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewAppointmentResponse(appointment))
}

func appointmentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
