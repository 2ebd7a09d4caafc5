package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"hangarhub/internal/hangars/service"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	apphttp "hangarhub/pkg/http"
	"hangarhub/pkg/middleware"
	"hangarhub/pkg/model"
)

type HangarHandler struct {
	service service.HangarService
	auth    *middleware.Authenticator
	cfg     *config.Config
}

func NewHangarHandler(svc service.HangarService, auth *middleware.Authenticator, cfg *config.Config) *HangarHandler {
	return &HangarHandler{
		service: svc,
		auth:    auth,
		cfg:     cfg,
	}
}

func (h *HangarHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/hangars", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.Create))
	router.GET("/api/hangars", h.List)
	router.GET("/api/owners/hangars", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.ListOwn))
	router.GET("/api/hangars/:id", h.GetByID)
	router.GET("/api/hangars/:id/availability", h.Availability)
	router.POST("/api/hangars/:id/availability", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.AddAvailability))
	router.PATCH("/api/hangars/:id", h.auth.Required(h.Update))
	router.DELETE("/api/hangars/:id", h.auth.Required(h.Delete))
}

func (h *HangarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var hangar model.Hangar
	if err := json.NewDecoder(r.Body).Decode(&hangar); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, &hangar)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteCreated(w, created); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	details, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, details); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter, err := extractFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	hangars, total, err := h.service.List(r.Context(), filter, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, hangars, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) ListOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	hangars, total, err := h.service.ListByOwner(r.Context(), identity.UserID, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, hangars, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var update model.HangarUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	hangar, err := h.service.Update(r.Context(), actorFrom(identity), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, hangar); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actorFrom(identity), ps.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	apphttp.WriteNoContent(w)
}

func (h *HangarHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	availability, err := h.service.Availability(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, availability); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *HangarHandler) AddAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var body struct {
		Availability []model.AvailabilitySlot `json:"availability"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	availability, err := h.service.AddAvailability(r.Context(), actorFrom(identity), ps.ByName("id"), body.Availability)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, availability); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func extractFilter(r *http.Request) (model.HangarFilter, error) {
	query := r.URL.Query()

	filter := model.HangarFilter{
		City:   query.Get("city"),
		Status: query.Get("status"),
		Size:   query.Get("size"),
	}

	if s := query.Get("minPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return filter, apperrors.InvalidInput("invalid minPrice parameter: " + s)
		}
		filter.MinPrice = &v
	}
	if s := query.Get("maxPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return filter, apperrors.InvalidInput("invalid maxPrice parameter: " + s)
		}
		filter.MaxPrice = &v
	}

	return filter, nil
}

func actorFrom(identity middleware.Identity) service.Actor {
	return service.Actor{ID: identity.UserID, Role: identity.Role}
}

func (h *HangarHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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
