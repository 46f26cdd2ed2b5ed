package httpapi

import (
	"fmt"
	"net/http"

	"affordhostel/pkg/domain"

	"github.com/gorilla/mux"
)

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	Role          domain.Role  `json:"role"`
	Page          string       `json:"page"`
	Unread        int          `json:"unread_notifications"`
}

func (h *Handler) session() sessionView {
	v := sessionView{
		Authenticated: h.svc.IsAuthenticated(),
		Role:          h.svc.CurrentRole(),
		Page:          h.svc.CurrentPage(),
		Unread:        h.svc.UnreadCount(),
	}
	if u, ok := h.svc.CurrentUser(); ok {
		v.User = &u
	}
	return v
}

func (h *Handler) getSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.session())
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.svc.Login(r.Context(), req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session())
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session())
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role domain.Role `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.SetCurrentRole(r.Context(), body.Role); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session())
}

func (h *Handler) setPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Page string `json:"page"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.svc.SetCurrentPage(body.Page)
	writeJSON(w, http.StatusOK, h.session())
}

func (h *Handler) listWishlist(w http.ResponseWriter, _ *http.Request) {
	items := h.svc.Wishlist()
	hostels := make([]domain.Hostel, 0, len(items))
	for _, item := range items {
		if hostel, ok := h.svc.GetHostel(item.HostelID); ok {
			hostels = append(hostels, hostel)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "hostels": hostels})
}

func (h *Handler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.AddToWishlist(r.Context(), mux.Vars(r)["hostelID"]); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveFromWishlist(r.Context(), mux.Vars(r)["hostelID"]); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.svc.Notifications(),
		"unread":        h.svc.UnreadCount(),
	})
}

func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	var req domain.NotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.svc.Notify(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"notification": n})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAsRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllAsRead(r.Context()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.svc.UpdateUserProfile(r.Context(), patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// uploadAvatar accepts a multipart form with a single "file" part.
func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse form: %v", err))
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "expected exactly one file")
		return
	}
	upload, err := readUpload(files[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	url, err := h.svc.UploadProfilePicture(r.Context(), upload)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"avatar": url})
}
