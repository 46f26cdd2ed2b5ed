// Package httpapi exposes the hostel service as a JSON API for the web client.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"affordhostel/internal/blob"
	"affordhostel/internal/core"
	"affordhostel/internal/gateway"
	"affordhostel/pkg/domain"

	"github.com/gorilla/mux"
)

const (
	apiPrefix    = "/api/v1"
	maxJSONBytes = 1 << 20
)

// Handler serves the /api/v1 routes on top of a core.Service.
type Handler struct {
	svc    *core.Service
	logger core.Logger
}

// Option configures the router.
type Option func(*routerOptions)

type routerOptions struct {
	logger  core.Logger
	metrics http.Handler
}

// WithLogger logs every request at debug level and failures at warn.
func WithLogger(logger core.Logger) Option {
	return func(o *routerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *routerOptions) {
		o.metrics = h
	}
}

// NewRouter builds the HTTP routes for svc.
func NewRouter(svc *core.Service, opts ...Option) *mux.Router {
	o := routerOptions{logger: discardLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	h := &Handler{svc: svc, logger: o.logger}

	router := mux.NewRouter()
	router.Use(h.logRequests)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if o.metrics != nil {
		router.Handle("/metrics", o.metrics).Methods(http.MethodGet)
	}
	router.Handle(blob.MediaPath+"/{key:.+}", noSniff(http.HandlerFunc(h.media))).Methods(http.MethodGet)

	api := router.PathPrefix(apiPrefix).Subrouter()
	api.Use(noSniff)

	api.HandleFunc("/session", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/session/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", h.logout).Methods(http.MethodPost)
	api.HandleFunc("/session/role", h.setRole).Methods(http.MethodPut)
	api.HandleFunc("/session/page", h.setPage).Methods(http.MethodPut)

	api.HandleFunc("/hostels", h.searchHostels).Methods(http.MethodGet)
	api.HandleFunc("/hostels", h.addHostel).Methods(http.MethodPost)
	api.HandleFunc("/hostels/{id}", h.getHostel).Methods(http.MethodGet)
	api.HandleFunc("/hostels/{id}", h.updateHostel).Methods(http.MethodPatch)
	api.HandleFunc("/hostels/{id}/agent", h.assignAgent).Methods(http.MethodPut)
	api.HandleFunc("/hostels/{id}/reports", h.submitReport).Methods(http.MethodPost)
	api.HandleFunc("/hostels/{id}/resubmit", h.resubmitHostel).Methods(http.MethodPost)
	api.HandleFunc("/hostels/{id}/reviews", h.listReviews).Methods(http.MethodGet)
	api.HandleFunc("/hostels/{id}/reviews", h.addReview).Methods(http.MethodPost)
	api.HandleFunc("/amenities", h.amenities).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{id}/helpful", h.markReviewHelpful).Methods(http.MethodPost)

	api.HandleFunc("/bookings", h.listBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.createBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/status", h.updateBookingStatus).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id}/receipt", h.buildReceipt).Methods(http.MethodPost)

	api.HandleFunc("/wishlist", h.listWishlist).Methods(http.MethodGet)
	api.HandleFunc("/wishlist/{hostelID}", h.addToWishlist).Methods(http.MethodPut)
	api.HandleFunc("/wishlist/{hostelID}", h.removeFromWishlist).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications", h.notify).Methods(http.MethodPost)
	api.HandleFunc("/notifications/read", h.markAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", h.markRead).Methods(http.MethodPost)

	api.HandleFunc("/profile", h.updateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/profile/avatar", h.uploadAvatar).Methods(http.MethodPost)

	api.HandleFunc("/company", h.getCompany).Methods(http.MethodGet)
	api.HandleFunc("/company", h.updateCompany).Methods(http.MethodPatch)
	api.HandleFunc("/company/team", h.addTeamMember).Methods(http.MethodPost)
	api.HandleFunc("/company/team/{id}", h.updateTeamMember).Methods(http.MethodPatch)
	api.HandleFunc("/company/team/{id}", h.removeTeamMember).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard/student", h.studentDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/agents/{id}", h.agentDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/landlords/{id}", h.landlordDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/admin", h.adminDashboard).Methods(http.MethodGet)

	return router
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		h.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func noSniff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeDomainError maps service errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	body := map[string]any{"error": err.Error()}
	var validation domain.ValidationError
	if errors.As(err, &validation) && len(validation.Fields) > 0 {
		body["fields"] = validation.Fields
	}
	var violation domain.RuleViolationError
	if errors.As(err, &violation) {
		body["violations"] = violation.Result.Violations
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	var violation domain.RuleViolationError
	switch {
	case errors.As(err, &violation):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSoldOut), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
