package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hangarhub/internal/dashboard/service"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	apphttp "hangarhub/pkg/http"
	"hangarhub/pkg/middleware"
	"hangarhub/pkg/model"
)

type DashboardHandler struct {
	service service.DashboardService
	auth    *middleware.Authenticator
	cfg     *config.Config
}

func NewDashboardHandler(svc service.DashboardService, auth *middleware.Authenticator, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		auth:    auth,
		cfg:     cfg,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/dashboard/metrics", h.auth.Required(h.Get))
}

// Get serves the dashboard matching the caller's role.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var dashboard any
	var err error
	switch identity.Role {
	case model.RoleAdmin:
		dashboard, err = h.service.ForAdmin(r.Context())
	case model.RoleProvider:
		dashboard, err = h.service.ForOwner(r.Context(), identity.UserID)
	default:
		dashboard, err = h.service.ForCustomer(r.Context(), identity.UserID)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, dashboard); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= 500 {
		h.cfg.Log.Error("Request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", appErr.Error(),
		)
	}
	if writeErr := apphttp.WriteError(w, appErr); writeErr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", writeErr)
	}
}
