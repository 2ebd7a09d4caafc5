package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hangarhub/internal/bookings/service"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	apphttp "hangarhub/pkg/http"
	"hangarhub/pkg/middleware"
	"hangarhub/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	cfg     *config.Config
}

func NewBookingHandler(svc service.BookingService, auth *middleware.Authenticator, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: svc,
		auth:    auth,
		cfg:     cfg,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	// The per-role listing routes live under /api/customers and /api/owners:
	// httprouter cannot mix static children with the :id wildcard.
	router.POST("/api/bookings", h.auth.RequireRole(model.RoleCustomer)(h.Create))
	router.GET("/api/customers/bookings", h.auth.Required(h.ListForCustomer))
	router.GET("/api/owners/bookings", h.auth.RequireRole(model.RoleProvider, model.RoleAdmin)(h.ListForOwner))
	router.GET("/api/bookings/:id", h.auth.Required(h.GetByID))
	router.PATCH("/api/bookings/:id/confirm", h.auth.Required(h.Confirm))
	router.PATCH("/api/bookings/:id/cancel", h.auth.Required(h.Cancel))
	router.PATCH("/api/bookings/:id/complete", h.auth.Required(h.Complete))
	router.PATCH("/api/bookings/:id/payment", h.auth.Required(h.UpdatePayment))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), identity.UserID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), actorFrom(identity), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) ListForCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bookings, total, err := h.service.ListForCustomer(r.Context(), identity.UserID, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, bookings, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) ListForOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	page, limit, err := apphttp.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bookings, total, err := h.service.ListForOwner(r.Context(), identity.UserID, limit, apphttp.Offset(page, limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WritePaginated(w, bookings, total, page, limit); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.service.Confirm)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.service.Cancel)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.transition(w, r, ps, h.service.Complete)
}

type paymentUpdateRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req paymentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	booking, err := h.service.SetPaymentStatus(r.Context(), actorFrom(identity), ps.ByName("id"), req.PaymentStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	fn func(ctx context.Context, actor service.Actor, id string) (*model.Booking, error),
) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	booking, err := fn(r.Context(), actorFrom(identity), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := apphttp.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func actorFrom(identity middleware.Identity) service.Actor {
	return service.Actor{ID: identity.UserID, Role: identity.Role}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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
