package api

import (
	"net/http"

	"autoshop/internal/repository"
)

type ServiceTypeHandler struct {
	Repo repository.ServiceTypeRepository
}

func NewServiceTypeHandler(repo repository.ServiceTypeRepository) *ServiceTypeHandler {
	return &ServiceTypeHandler{Repo: repo}
}

// List returns the service catalog for the booking form.
func (h *ServiceTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.Repo.FindAll()
	if err != nil {
		writeError(w, err)
		return
	}

	type serviceTypeResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	responses := make([]serviceTypeResponse, 0, len(types))
	for _, st := range types {
		responses = append(responses, serviceTypeResponse{ID: st.ID, Name: st.Name})
	}
	writeJSON(w, http.StatusOK, responses)
}
