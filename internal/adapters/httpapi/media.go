package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// media streams an uploaded avatar or verification photo.
func (h *Handler) media(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	obj, body, err := h.svc.Media(r.Context(), key)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer body.Close()
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("media write failed", "key", key, "error", err)
	}
}
