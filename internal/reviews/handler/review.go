package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hangarhub/internal/reviews/service"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	apphttp "hangarhub/pkg/http"
	"hangarhub/pkg/middleware"
	"hangarhub/pkg/model"
)

type ReviewHandler struct {
	service service.ReviewService
	auth    *middleware.Authenticator
	cfg     *config.Config
}

func NewReviewHandler(svc service.ReviewService, auth *middleware.Authenticator, cfg *config.Config) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		auth:    auth,
		cfg:     cfg,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/reviews", h.auth.RequireRole(model.RoleCustomer)(h.Submit))
	router.GET("/api/reviews/:id", h.GetByID)
	router.PATCH("/api/reviews/:id", h.auth.Required(h.Update))
	router.DELETE("/api/reviews/:id", h.auth.Required(h.Hide))
	router.POST("/api/reviews/:id/response", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.Respond))
	router.POST("/api/reviews/:id/report", h.auth.Required(h.Report))
	router.GET("/api/hangars/:id/reviews", h.ListByHangar)
	router.GET("/api/customers/reviews", h.auth.Required(h.ListOwn))
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	review, err := h.service.Submit(r.Context(), identity.UserID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteCreated(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	review, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) ListByHangar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	reviews, total, err := h.service.ListByHangar(r.Context(), ps.ByName("id"), limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, reviews, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) ListOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	reviews, total, err := h.service.ListByUser(r.Context(), identity.UserID, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, reviews, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var update model.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	review, err := h.service.Update(r.Context(), actorFrom(identity), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

type responseRequest struct {
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	review, err := h.service.Respond(r.Context(), actorFrom(identity), ps.ByName("id"), req.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) Report(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	review, err := h.service.Report(r.Context(), actorFrom(identity), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) Hide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if _, err := h.service.Hide(r.Context(), actorFrom(identity), ps.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	apphttp.WriteNoContent(w)
}

func actorFrom(identity middleware.Identity) service.Actor {
	return service.Actor{ID: identity.UserID, Role: identity.Role}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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
