package httpapi

import (
	"net/http"

	"affordhostel/pkg/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) getCompany(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"company": h.svc.CompanyInfo()})
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	var patch domain.CompanyInfoPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	info, err := h.svc.UpdateCompanyInfo(r.Context(), patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": info})
}

func (h *Handler) addTeamMember(w http.ResponseWriter, r *http.Request) {
	var in domain.TeamMemberInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	member, err := h.svc.AddTeamMember(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"member": member})
}

func (h *Handler) updateTeamMember(w http.ResponseWriter, r *http.Request) {
	var patch domain.TeamMemberPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	member, err := h.svc.UpdateTeamMember(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

func (h *Handler) removeTeamMember(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveTeamMember(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) studentDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.svc.CurrentUser()
	if !ok {
		h.writeDomainError(w, r, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":    h.svc.StudentStats(),
		"bookings": h.svc.BookingsForStudent(user.ID),
	})
}

func (h *Handler) agentDashboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]any{
		"queue":     h.svc.AgentQueue(id),
		"completed": h.svc.AgentCompleted(id),
	})
}

func (h *Handler) landlordDashboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]any{
		"properties": h.svc.LandlordProperties(id),
		"requests":   h.svc.LandlordBookingRequests(id),
	})
}

func (h *Handler) adminDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AdminOverview())
}
