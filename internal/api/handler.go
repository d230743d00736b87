package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"ms-reservation/internal/booking"
	"ms-reservation/internal/domain"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/tickets"
	"ms-reservation/internal/trips"
	"ms-reservation/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler is the thin HTTP collaborator: it parses requests, calls the
// core services, and serializes their value structs to JSON. All
// domain logic lives behind it.
type Handler struct {
	Trips    *trips.Service
	Tickets  *tickets.Aggregator
	Bookings *booking.Service
	Logger   *logger.Logger
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tickets/search", h.SearchTickets)
		r.Route("/{tenant}", func(r chi.Router) {
			r.Get("/trips", h.SearchTrips)
			r.Post("/tickets", h.BookTicket)
			r.Post("/tickets/{id}/confirm", h.ConfirmTicket)
			r.Post("/tickets/{id}/cancel", h.CancelTicket)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
}

// SearchTrips answers GET /api/v1/{tenant}/trips?from=&to=&date=
func (h *Handler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	tenantKey := chi.URLParam(r, "tenant")
	from, _ := strconv.ParseInt(r.URL.Query().Get("from"), 10, 64)
	to, _ := strconv.ParseInt(r.URL.Query().Get("to"), 10, 64)
	date := r.URL.Query().Get("date")

	summaries, err := h.Trips.Search(r.Context(), tenantKey, from, to, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("trips found", summaries))
}

// SearchTickets answers GET /api/v1/tickets/search?pnr=&phone=&email=&national_id=
func (h *Handler) SearchTickets(w http.ResponseWriter, r *http.Request) {
	query := models.TicketQuery{
		PNR:        r.URL.Query().Get("pnr"),
		Phone:      r.URL.Query().Get("phone"),
		Email:      r.URL.Query().Get("email"),
		NationalID: r.URL.Query().Get("national_id"),
	}

	summaries, err := h.Tickets.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("tickets found", summaries))
}

// BookTicket answers POST /api/v1/{tenant}/tickets
func (h *Handler) BookTicket(w http.ResponseWriter, r *http.Request) {
	tenantKey := chi.URLParam(r, "tenant")

	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	ticket, err := h.Bookings.Book(r.Context(), tenantKey, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("ticket booked", ticket))
}

// ConfirmTicket answers POST /api/v1/{tenant}/tickets/{id}/confirm
func (h *Handler) ConfirmTicket(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Bookings.Confirm)
}

// CancelTicket answers POST /api/v1/{tenant}/tickets/{id}/cancel
func (h *Handler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Bookings.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, tenantKey string, ticketID int64) (*models.Ticket, error)) {
	tenantKey := chi.URLParam(r, "tenant")
	ticketID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid ticket id", err.Error()))
		return
	}

	ticket, err := fn(r.Context(), tenantKey, ticketID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket updated", ticket))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsTenantNotFound(err):
		status = http.StatusNotFound
	case domain.IsConflict(err):
		status = http.StatusConflict
	case domain.IsTenantConnection(err):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.Error("API", err.Error())
	}
	utils.WriteJSON(w, status, utils.ErrorResponse("request failed", err.Error()))
}
