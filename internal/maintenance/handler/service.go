package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hangarhub/internal/maintenance/service"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	apphttp "hangarhub/pkg/http"
	"hangarhub/pkg/middleware"
	"hangarhub/pkg/model"
)

type ServiceHandler struct {
	service service.MaintenanceService
	auth    *middleware.Authenticator
	cfg     *config.Config
}

func NewServiceHandler(svc service.MaintenanceService, auth *middleware.Authenticator, cfg *config.Config) *ServiceHandler {
	return &ServiceHandler{
		service: svc,
		auth:    auth,
		cfg:     cfg,
	}
}

func (h *ServiceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/services", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.Create))
	router.GET("/api/services", h.List)
	router.GET("/api/owners/services", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.ListOwn))
	router.GET("/api/services/:id", h.GetByID)
	router.PATCH("/api/services/:id", h.auth.Required(h.Update))
	router.DELETE("/api/services/:id", h.auth.Required(h.Delete))
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, &svc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteCreated(w, created); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, svc); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter := model.ServiceFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	services, total, err := h.service.List(r.Context(), filter, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, services, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ServiceHandler) ListOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	services, total, err := h.service.ListByProvider(r.Context(), identity.UserID, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, services, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var update model.ServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	svc, err := h.service.Update(r.Context(), actorFrom(identity), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, svc); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actorFrom(identity), ps.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	apphttp.WriteNoContent(w)
}

func actorFrom(identity middleware.Identity) service.Actor {
	return service.Actor{ID: identity.UserID, Role: identity.Role}
}

func (h *ServiceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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
