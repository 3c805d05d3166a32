// Package reservation persists confirmed quotes and serves the staff
// bookings views: filtered listings, cancellation, and the capacity
// calendar summary.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/common"
	"github.com/stayware/lodge-api/internal/events"
	"github.com/stayware/lodge-api/internal/quote"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
)

// ErrNotFound is returned when a reservation does not exist.
var ErrNotFound = errors.New("reservation not found")

// Reservation is one confirmed stay. The special charges and discount are
// carried verbatim from the confirmed quote; totals are the quote's final
// calculation snapshot.
type Reservation struct {
	ID            uuid.UUID                `json:"id"`
	Reference     string                   `json:"reference"`
	GuestName     string                   `json:"guestName"`
	GuestPhone    string                   `json:"guestPhone,omitempty"`
	CheckInDate   string                   `json:"checkInDate"`
	CheckOutDate  string                   `json:"checkOutDate"`
	Allocations   []billing.RoomAllocation `json:"roomAllocations"`
	Charges       []billing.LineItem       `json:"specialCharges"`
	DiscountType  billing.DiscountType     `json:"discountType"`
	DiscountValue float64                  `json:"discountValue"`
	Calculation   billing.Calculation      `json:"calculation"`
	PaymentMethod string                   `json:"paymentMethod"`
	Status        Status                   `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// Repo abstracts reservation persistence.
type Repo interface {
	Insert(ctx context.Context, r Reservation) error
	List(ctx context.Context) ([]Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Reservation, error)
}

// Service owns reservation lifecycle and bookings queries.
type Service struct {
	Repo   Repo
	Events *events.Bus
	Log    zerolog.Logger
}

// CreateFromQuote persists a confirmed quote as a reservation and emits
// reservation.created. It implements quote.Confirmer.
func (s *Service) CreateFromQuote(ctx context.Context, q quote.Quote) (quote.ConfirmResult, error) {
	id := uuid.New()
	r := Reservation{
		ID:            id,
		Reference:     newReference(id),
		GuestName:     q.GuestName,
		GuestPhone:    q.GuestPhone,
		CheckInDate:   q.CheckInDate,
		CheckOutDate:  q.CheckOutDate,
		Allocations:   q.Allocations,
		Charges:       q.Charges,
		DiscountType:  q.DiscountType,
		DiscountValue: q.DiscountValue,
		Calculation:   q.Calculation,
		PaymentMethod: q.PaymentMethod,
		Status:        StatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Insert(ctx, r); err != nil {
		return quote.ConfirmResult{}, fmt.Errorf("persist reservation: %w", err)
	}
	s.emitQuoteConfirmed(ctx, q, r)
	s.emit(ctx, events.TopicReservationCreated, r)
	return quote.ConfirmResult{ReservationID: r.ID.String(), Reference: r.Reference}, nil
}

// emitQuoteConfirmed records the quote-side event keyed by the draft id.
func (s *Service) emitQuoteConfirmed(ctx context.Context, q quote.Quote, r Reservation) {
	if s.Events == nil {
		return
	}
	quoteID, err := uuid.Parse(q.ID)
	if err != nil {
		quoteID = r.ID
	}
	payload := map[string]any{
		"quoteId":       q.ID,
		"reservationId": r.ID.String(),
		"reference":     r.Reference,
		"finalTotal":    r.Calculation.FinalTotal,
	}
	if _, err := s.Events.Emit(ctx, events.TopicQuoteConfirmed, quoteID, payload); err != nil {
		s.Log.Warn().Err(err).Str("quote_id", q.ID).Msg("emit quote confirmed")
	}
}

// ListParams captures the bookings view filters.
type ListParams struct {
	Range RangeKind
	From  string
	To    string
	Query string
}

// List returns reservations matching the requested range and search query.
// Filtering happens in memory over the loaded set, mirroring the bookings
// dashboard this replaces.
func (s *Service) List(ctx context.Context, p ListParams) ([]Reservation, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if p.Range != "" {
		start, end, err := ResolveRange(p.Range, time.Now(), p.From, p.To)
		if err != nil {
			return nil, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
		}
		all = FilterByRange(all, start, end)
	}
	if q := strings.TrimSpace(p.Query); q != "" {
		all = Search(all, q)
	}
	return all, nil
}

// Get fetches one reservation.
func (s *Service) Get(ctx context.Context, id string) (Reservation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Reservation{}, common.NotFound("reservation not found")
	}
	r, err := s.Repo.GetByID(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return Reservation{}, common.NotFound("reservation not found")
	}
	return r, err
}

// Cancel marks a reservation canceled and emits reservation.canceled.
func (s *Service) Cancel(ctx context.Context, id string) (Reservation, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if r.Status == StatusCanceled {
		return Reservation{}, common.NewAppError("CONFLICT", "reservation already canceled", http.StatusConflict, nil)
	}
	r, err = s.Repo.UpdateStatus(ctx, r.ID, StatusCanceled)
	if err != nil {
		return Reservation{}, err
	}
	s.emit(ctx, events.TopicReservationCanceled, r)
	return r, nil
}

// Capacity returns the per-day occupied room count between two dates.
func (s *Service) Capacity(ctx context.Context, from, to string) ([]DayOccupancy, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "invalid from date", http.StatusBadRequest, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "invalid to date", http.StatusBadRequest, err)
	}
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Occupancy(all, start, end), nil
}

func (s *Service) emit(ctx context.Context, topic string, r Reservation) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{
		"reference":  r.Reference,
		"guestName":  r.GuestName,
		"checkIn":    r.CheckInDate,
		"checkOut":   r.CheckOutDate,
		"finalTotal": r.Calculation.FinalTotal,
		"status":     r.Status,
	}
	if _, err := s.Events.Emit(ctx, topic, r.ID, payload); err != nil {
		s.Log.Warn().Err(err).Str("topic", topic).Str("reference", r.Reference).Msg("emit reservation event")
	}
}

// newReference derives a short human-readable booking reference.
func newReference(id uuid.UUID) string {
	return "LDG-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
