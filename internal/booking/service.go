package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-reservation/internal/config"
	"ms-reservation/internal/domain"
	"ms-reservation/internal/kafka"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/tenant"
	"ms-reservation/internal/utils"
)

// SeatLocker holds a seat while a booking is in flight.
type SeatLocker interface {
	LockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) (bool, error)
	UnlockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) error
}

// EventPublisher streams ticket lifecycle events.
type EventPublisher interface {
	PublishTicketEvent(topic string, event kafka.TicketEvent) error
}

// Service books, confirms and cancels seats within one tenant.
type Service struct {
	Pool   *tenant.Pool
	Locks  SeatLocker
	Events EventPublisher
	Topics config.TopicConfig
	QR     *QRGenerator
	Log    *logger.Logger
}

func NewService(pool *tenant.Pool, locks SeatLocker, events EventPublisher, topics config.TopicConfig, qr *QRGenerator, log *logger.Logger) *Service {
	return &Service{Pool: pool, Locks: locks, Events: events, Topics: topics, QR: qr, Log: log}
}

// Request carries the passenger details for one seat booking.
type Request struct {
	TripID     int64  `json:"trip_id"`
	SeatNo     int    `json:"seat_no"`
	Gender     string `json:"gender"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	UserID     int64  `json:"user_id,omitempty"`
}

func (r Request) validate() error {
	if r.TripID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "trip is required"}
	}
	if r.SeatNo <= 0 {
		return domain.ValidationError{Field: "seat_no", Msg: "seat number is required"}
	}
	if r.FirstName == "" || r.LastName == "" {
		return domain.ValidationError{Field: "name", Msg: "passenger name is required"}
	}
	if r.Phone == "" && r.Email == "" {
		return domain.ValidationError{Field: "contact", Msg: "phone or email is required"}
	}
	return nil
}

// Book reserves a seat on a trip: checks occupancy, locks the seat,
// writes a pending ticket with its PNR and QR, and streams the created
// event. The redis lock is rolled back when the insert fails.
func (s *Service) Book(ctx context.Context, tenantKey string, req Request) (*models.Ticket, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	h, err := s.Pool.Handle(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	trip, err := h.TripByID(ctx, req.TripID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ValidationError{Field: "trip_id", Msg: fmt.Sprintf("trip %d does not exist", req.TripID)}
	}
	if err != nil {
		return nil, err
	}

	busModel, err := h.BusModelByID(ctx, trip.BusModelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.MissingReferenceDataError{Resource: "bus model", ID: trip.BusModelID}
	}
	if err != nil {
		return nil, err
	}
	if req.SeatNo > busModel.MaxPassenger {
		return nil, domain.ValidationError{Field: "seat_no", Msg: fmt.Sprintf("seat %d exceeds capacity %d", req.SeatNo, busModel.MaxPassenger)}
	}

	occupied, err := h.ActiveTicketsByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range occupied {
		if t.SeatNo == req.SeatNo {
			return nil, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d is already booked", req.SeatNo)}
		}
	}

	pnr := utils.GeneratePNR()
	locked, err := s.Locks.LockSeat(ctx, tenantKey, trip.ID, req.SeatNo, pnr)
	if err != nil {
		return nil, fmt.Errorf("seat lock: %w", err)
	}
	if !locked {
		return nil, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d is being booked by someone else", req.SeatNo)}
	}

	ticket := &models.Ticket{
		TripID:     trip.ID,
		SeatNo:     req.SeatNo,
		Status:     models.TicketStatusPending,
		Gender:     req.Gender,
		PNR:        pnr,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		UserID:     req.UserID,
	}

	if s.QR != nil {
		qrBytes, err := s.QR.GenerateTicketQR(tenantKey, pnr, trip.ID, req.SeatNo)
		if err != nil {
			_ = s.Locks.UnlockSeat(ctx, tenantKey, trip.ID, req.SeatNo, pnr)
			return nil, fmt.Errorf("generate ticket QR: %w", err)
		}
		ticket.QRCode = qrBytes
	}

	if err := h.CreateTicket(ctx, ticket); err != nil {
		_ = s.Locks.UnlockSeat(ctx, tenantKey, trip.ID, req.SeatNo, pnr)
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.publish(s.Topics.TicketCreated, tenantKey, *ticket)
	if s.Log != nil {
		s.Log.LogBooking(pnr, fmt.Sprintf("seat %d on trip %d booked for tenant %s", req.SeatNo, trip.ID, tenantKey))
	}
	return ticket, nil
}

// Confirm marks a pending ticket completed. The database row now holds
// the seat, so the in-flight lock is released.
func (s *Service) Confirm(ctx context.Context, tenantKey string, ticketID int64) (*models.Ticket, error) {
	return s.transition(ctx, tenantKey, ticketID, models.TicketStatusPending, models.TicketStatusCompleted, s.Topics.TicketConfirmed)
}

// Cancel releases a ticket's seat by marking it canceled.
func (s *Service) Cancel(ctx context.Context, tenantKey string, ticketID int64) (*models.Ticket, error) {
	return s.transition(ctx, tenantKey, ticketID, "", models.TicketStatusCanceled, s.Topics.TicketCanceled)
}

func (s *Service) transition(ctx context.Context, tenantKey string, ticketID int64, from, to, topic string) (*models.Ticket, error) {
	h, err := s.Pool.Handle(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	ticket, err := h.TicketByID(ctx, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ValidationError{Field: "ticket_id", Msg: fmt.Sprintf("ticket %d does not exist", ticketID)}
	}
	if err != nil {
		return nil, err
	}
	if from != "" && ticket.Status != from {
		return nil, domain.ConflictError{Resource: "ticket", Msg: fmt.Sprintf("ticket %d is %s, expected %s", ticketID, ticket.Status, from)}
	}
	if ticket.Status == to {
		return ticket, nil
	}

	ticket.Status = to
	if err := h.UpdateTicket(ctx, *ticket); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	_ = s.Locks.UnlockSeat(ctx, tenantKey, ticket.TripID, ticket.SeatNo, ticket.PNR)
	s.publish(topic, tenantKey, *ticket)
	if s.Log != nil {
		s.Log.LogBooking(ticket.PNR, fmt.Sprintf("ticket %d -> %s", ticketID, to))
	}
	return ticket, nil
}

// publish streams the event best-effort; a broker outage must not
// fail the booking that already committed.
func (s *Service) publish(topic, tenantKey string, ticket models.Ticket) {
	if s.Events == nil || topic == "" {
		return
	}
	err := s.Events.PublishTicketEvent(topic, kafka.TicketEvent{
		TenantKey: tenantKey,
		TicketID:  ticket.ID,
		TripID:    ticket.TripID,
		SeatNo:    ticket.SeatNo,
		PNR:       ticket.PNR,
		Status:    ticket.Status,
	})
	if err != nil && s.Log != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish %s for pnr %s: %v", topic, ticket.PNR, err))
	}
}
