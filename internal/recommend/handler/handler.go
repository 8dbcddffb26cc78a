// Package handler exposes the recommendation engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/ratelimit"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/httputil"
	"tandem/pkg/platform/middleware/admin"
	request "tandem/pkg/platform/middleware/request"
)

const defaultPageSize = 20

// Service is the recommendation surface the handler needs.
type Service interface {
	RecommendDaily(ctx context.Context, userID id.UserID) (*models.DailyResult, error)
	RecommendSlot(ctx context.Context, userID id.UserID, page, size int) (*models.SlotPage, error)
	RecommendSlotForLabel(ctx context.Context, userID id.UserID, label string) (*models.SlotResult, error)
	ForceRefresh(ctx context.Context, userID id.UserID, cadence models.Cadence, label string) (*models.RefreshResult, error)
	Stats(ctx context.Context, userID id.UserID) (*models.HistoryStats, error)
	Settings() *models.Settings
	UpdateSettings(ctx context.Context, next models.Settings) (*models.Settings, error)
	DeleteUserHistory(ctx context.Context, userID id.UserID) (int64, error)
}

type Handler struct {
	svc     Service
	logger  *slog.Logger
	limiter *ratelimit.Window
}

type Option func(*Handler)

// WithRefreshLimiter caps forced refreshes per member.
func WithRefreshLimiter(w *ratelimit.Window) Option {
	return func(h *Handler) {
		h.limiter = w
	}
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{svc: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the member-facing routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/users/{userID}/recommendations", func(r chi.Router) {
		r.Get("/daily", h.handleDaily)
		r.Get("/slot", h.handleSlot)
		r.Get("/slot/{label}", h.handleSlotForLabel)
		r.With(ratelimit.Middleware(h.limiter, memberKey, h.logger)).Post("/refresh", h.handleRefresh)
		r.Get("/stats", h.handleStats)
	})
}

// RegisterAdmin mounts the settings routes behind the admin token.
func (h *Handler) RegisterAdmin(r chi.Router, adminToken string) {
	r.Route("/admin/recommendations", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(adminToken, h.logger))
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handlePutSettings)
		r.Delete("/users/{userID}/history", h.handleDeleteHistory)
	})
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.RecommendDaily(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "daily recommendation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	page, err := intQuery(r, "page", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	size, err := intQuery(r, "size", defaultPageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.svc.RecommendSlot(r.Context(), userID, page, size)
	if err != nil {
		h.fail(w, r, "slot recommendation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSlotForLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.RecommendSlotForLabel(r.Context(), userID, chi.URLParam(r, "label"))
	if err != nil {
		h.fail(w, r, "slot recommendation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	cadence, err := req.cadence()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.svc.ForceRefresh(r.Context(), userID, cadence, req.Slot)
	if err != nil {
		h.fail(w, r, "force refresh failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "stats lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toSettingsBody(h.svc.Settings()))
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if err := decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	next, err := body.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	applied, err := h.svc.UpdateSettings(r.Context(), next)
	if err != nil {
		h.fail(w, r, "settings update rejected", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSettingsBody(applied))
}

func (h *Handler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteUserHistory(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "history deletion failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleteHistoryResponse{UserID: userID.String(), Deleted: deleted})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, false
	}
	return userID, true
}

// fail logs server-side failures and writes the coded error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if de, ok := dErrors.As(err); !ok || dErrors.ToHTTPStatus(de.Code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
	} else {
		h.logger.DebugContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func memberKey(r *http.Request) string {
	return chi.URLParam(r, "userID")
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, key+" must be an integer")
	}
	return n, nil
}
