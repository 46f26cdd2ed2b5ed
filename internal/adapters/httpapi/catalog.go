package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"affordhostel/pkg/domain"

	"github.com/gorilla/mux"
)

const maxMultipartMemory = 32 << 20

func (h *Handler) searchHostels(w http.ResponseWriter, r *http.Request) {
	q, err := parseHostelQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hostels, err := h.svc.SearchHostels(q)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hostels": hostels})
}

func parseHostelQuery(r *http.Request) (domain.HostelQuery, error) {
	values := r.URL.Query()
	q := domain.HostelQuery{
		Term:       values.Get("q"),
		University: values.Get("university"),
		Sort:       domain.HostelSort(values.Get("sort")),
	}
	for _, p := range []struct {
		key string
		dst **float64
	}{{"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice}} {
		raw := values.Get(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.HostelQuery{}, fmt.Errorf("invalid %s %q", p.key, raw)
		}
		*p.dst = &v
	}
	if raw := values.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				q.Amenities = append(q.Amenities, a)
			}
		}
	}
	if raw := values.Get("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.HostelQuery{}, fmt.Errorf("invalid verified %q", raw)
		}
		q.VerifiedOnly = v
	}
	return q, nil
}

func (h *Handler) addHostel(w http.ResponseWriter, r *http.Request) {
	var req domain.AddHostelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hostel, res, err := h.svc.AddHostel(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"hostel": hostel, "violations": res.Violations})
}

func (h *Handler) getHostel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	hostel, ok := h.svc.GetHostel(id)
	if !ok {
		h.writeDomainError(w, r, domain.NotFoundError{Entity: domain.EntityHostel, ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hostel": hostel})
}

func (h *Handler) updateHostel(w http.ResponseWriter, r *http.Request) {
	var patch domain.HostelPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hostel, res, err := h.svc.UpdateHostel(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hostel": hostel, "violations": res.Violations})
}

func (h *Handler) assignAgent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AgentID string `json:"agent_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hostel, _, err := h.svc.AssignAgentToHostel(r.Context(), mux.Vars(r)["id"], body.AgentID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hostel": hostel})
}

// submitReport accepts a multipart form with status, comments, agent_id and
// any number of "photos" files.
func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse form: %v", err))
		return
	}
	req := domain.VerificationReportRequest{
		AgentID:  r.FormValue("agent_id"),
		Comments: r.FormValue("comments"),
		Photos:   r.MultipartForm.Value["photo_urls"],
		Status:   domain.VerificationStatus(r.FormValue("status")),
	}
	for _, fh := range r.MultipartForm.File["photos"] {
		upload, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Uploads = append(req.Uploads, upload)
	}
	report, _, err := h.svc.SubmitVerificationReport(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": report})
}

func readUpload(fh *multipart.FileHeader) (domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	body, err := io.ReadAll(io.LimitReader(f, domain.MaxUploadBytes+1))
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (h *Handler) resubmitHostel(w http.ResponseWriter, r *http.Request) {
	hostel, _, err := h.svc.ResubmitHostel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hostel": hostel})
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"reviews": h.svc.GetHostelReviews(mux.Vars(r)["id"])})
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	review, _, err := h.svc.AddReview(r.Context(), mux.Vars(r)["id"], body.Rating, body.Comment)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"review": review})
}

func (h *Handler) markReviewHelpful(w http.ResponseWriter, r *http.Request) {
	review, err := h.svc.MarkReviewHelpful(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review": review})
}

func (h *Handler) amenities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"amenities": h.svc.Amenities()})
}
