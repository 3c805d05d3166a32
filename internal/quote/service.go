// Package quote drives the staff-facing reservation form as a service:
// a draft quote accumulates stay dates, room allocations, special charges
// and a discount, and every mutation recomputes the payable summary.
package quote

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/charges"
	"github.com/stayware/lodge-api/internal/common"
	"github.com/stayware/lodge-api/internal/lock"
	"github.com/stayware/lodge-api/internal/obs"
)

// Quote is one draft reservation under composition. It is the only state
// the engine holds; the Calculation is re-derived on every input change.
type Quote struct {
	ID            string                   `json:"id"`
	GuestName     string                   `json:"guestName"`
	GuestPhone    string                   `json:"guestPhone"`
	CheckInDate   string                   `json:"checkInDate"`
	CheckOutDate  string                   `json:"checkOutDate"`
	Allocations   []billing.RoomAllocation `json:"roomAllocations"`
	Charges       []billing.LineItem       `json:"specialCharges"`
	DiscountType  billing.DiscountType     `json:"discountType"`
	DiscountValue float64                  `json:"discountValue"`
	PaymentMethod string                   `json:"paymentMethod,omitempty"`
	ChargeSync    charges.SyncState        `json:"chargeSync"`
	Calculation   billing.Calculation      `json:"calculation"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// CreateInput seeds a new draft quote.
type CreateInput struct {
	GuestName    string                   `json:"guestName" validate:"required"`
	GuestPhone   string                   `json:"guestPhone"`
	CheckInDate  string                   `json:"checkInDate" validate:"required"`
	CheckOutDate string                   `json:"checkOutDate" validate:"required"`
	Allocations  []billing.RoomAllocation `json:"roomAllocations"`
}

// StayInput replaces the stay dates and room allocations of a draft.
type StayInput struct {
	CheckInDate  string                   `json:"checkInDate" validate:"required"`
	CheckOutDate string                   `json:"checkOutDate" validate:"required"`
	Allocations  []billing.RoomAllocation `json:"roomAllocations"`
}

// DiscountInput replaces the discount selection.
type DiscountInput struct {
	Type  billing.DiscountType `json:"type" validate:"required,oneof=none percentage amount"`
	Value float64              `json:"value"`
}

// ConfirmResult reports the reservation created from a confirmed quote.
type ConfirmResult struct {
	ReservationID string `json:"reservationId"`
	Reference     string `json:"reference"`
}

// MasterSource supplies the special-charge catalog snapshot.
type MasterSource interface {
	Masters(ctx context.Context) ([]billing.ChargeMaster, error)
}

// Confirmer persists a confirmed quote as a reservation.
type Confirmer interface {
	CreateFromQuote(ctx context.Context, q Quote) (ConfirmResult, error)
}

// Service owns draft quote lifecycle and recomputation.
type Service struct {
	Drafts       *Store
	Catalog      MasterSource
	Reservations Confirmer
	Locks        *lock.Locker
	Log          zerolog.Logger
}

// Create opens a new draft and computes its first summary.
func (s *Service) Create(ctx context.Context, in CreateInput) (Quote, error) {
	if fields := common.ValidateStruct(in); fields != nil {
		return Quote{}, common.ValidationFailed(fields)
	}
	now := time.Now().UTC()
	q := Quote{
		ID:           uuid.NewString(),
		GuestName:    strings.TrimSpace(in.GuestName),
		GuestPhone:   strings.TrimSpace(in.GuestPhone),
		CheckInDate:  in.CheckInDate,
		CheckOutDate: in.CheckOutDate,
		Allocations:  in.Allocations,
		DiscountType: billing.DiscountTypeNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.saveRecomputed(ctx, q)
}

// Get loads a draft.
func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	q, ok, err := s.Drafts.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if !ok {
		return Quote{}, common.NotFound("quote not found")
	}
	return q, nil
}

// SetStay replaces dates and allocations, then recomputes.
func (s *Service) SetStay(ctx context.Context, id string, in StayInput) (Quote, error) {
	if fields := common.ValidateStruct(in); fields != nil {
		return Quote{}, common.ValidationFailed(fields)
	}
	return s.mutate(ctx, id, func(q *Quote) {
		q.CheckInDate = in.CheckInDate
		q.CheckOutDate = in.CheckOutDate
		q.Allocations = in.Allocations
	})
}

// AddCustomCharge appends a blank line item.
func (s *Service) AddCustomCharge(ctx context.Context, id string) (Quote, error) {
	return s.mutate(ctx, id, func(q *Quote) {
		q.Charges = charges.AddCustom(q.Charges)
	})
}

// AddPresetCharge adds a catalog-backed charge; repeated taps on the same
// preset increment the existing row.
func (s *Service) AddPresetCharge(ctx context.Context, id, kind string) (Quote, error) {
	masters, err := s.Catalog.Masters(ctx)
	if err != nil {
		return Quote{}, err
	}
	obs.ObserveChargePreset(kind)
	return s.mutate(ctx, id, func(q *Quote) {
		q.Charges = charges.AddPreset(q.Charges, kind, masters, s.Log)
	})
}

// UpdateCharge patches one line item.
func (s *Service) UpdateCharge(ctx context.Context, id, chargeID string, patch charges.Patch) (Quote, error) {
	return s.mutate(ctx, id, func(q *Quote) {
		q.Charges = charges.Apply(q.Charges, chargeID, patch)
	})
}

// RemoveCharge drops one line item.
func (s *Service) RemoveCharge(ctx context.Context, id, chargeID string) (Quote, error) {
	return s.mutate(ctx, id, func(q *Quote) {
		q.Charges = charges.Remove(q.Charges, chargeID)
	})
}

// SetDiscount replaces the discount selection, then recomputes.
func (s *Service) SetDiscount(ctx context.Context, id string, in DiscountInput) (Quote, error) {
	if fields := common.ValidateStruct(in); fields != nil {
		return Quote{}, common.ValidationFailed(fields)
	}
	return s.mutate(ctx, id, func(q *Quote) {
		q.DiscountType = in.Type
		q.DiscountValue = in.Value
	})
}

// SetPaymentMethod records the selected payment method.
func (s *Service) SetPaymentMethod(ctx context.Context, id, method string) (Quote, error) {
	return s.mutate(ctx, id, func(q *Quote) {
		q.PaymentMethod = strings.TrimSpace(method)
	})
}

// ValidateConfirm returns the form error map gating confirmation. Guest
// count, date ordering and discount bounds are intentionally not validated
// here; the payment method is the only required selection.
func ValidateConfirm(q Quote) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(q.PaymentMethod) == "" {
		fields["paymentMethod"] = "required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Confirm validates the draft, hands it to the reservation module verbatim,
// and deletes the draft on success. When a locker is configured the whole
// sequence runs under a per-draft lock so two staff members cannot confirm
// the same quote into two reservations.
func (s *Service) Confirm(ctx context.Context, id string) (ConfirmResult, error) {
	if s.Locks != nil {
		var result ConfirmResult
		err := s.Locks.WithLock(ctx, "lodge:confirm:"+id, 15*time.Second, func(ctx context.Context) error {
			var err error
			result, err = s.confirm(ctx, id)
			return err
		})
		return result, err
	}
	return s.confirm(ctx, id)
}

func (s *Service) confirm(ctx context.Context, id string) (ConfirmResult, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return ConfirmResult{}, err
	}
	if fields := ValidateConfirm(q); fields != nil {
		obs.ObserveQuoteConfirm("rejected")
		return ConfirmResult{}, common.ValidationFailed(fields)
	}
	res, err := s.Reservations.CreateFromQuote(ctx, q)
	if err != nil {
		obs.ObserveQuoteConfirm("error")
		return ConfirmResult{}, err
	}
	if err := s.Drafts.Delete(ctx, id); err != nil {
		s.Log.Warn().Err(err).Str("quote_id", id).Msg("failed to delete confirmed draft")
	}
	obs.ObserveQuoteConfirm("ok")
	return res, nil
}

// mutate loads, applies, recomputes and saves in one step.
func (s *Service) mutate(ctx context.Context, id string, apply func(*Quote)) (Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	apply(&q)
	return s.saveRecomputed(ctx, q)
}

// saveRecomputed re-derives the extra-person charge and the payable summary
// from the current snapshot, then persists the draft.
func (s *Service) saveRecomputed(ctx context.Context, q Quote) (Quote, error) {
	masters, err := s.Catalog.Masters(ctx)
	if err != nil {
		return Quote{}, err
	}
	nights := billing.Nights(q.CheckInDate, q.CheckOutDate)
	q.Charges, q.ChargeSync = charges.DeriveExtraPerson(q.Charges, q.Allocations, nights, masters, q.ChargeSync, s.Log)
	q.Calculation = billing.Summarize(q.Allocations, q.Charges, q.CheckInDate, q.CheckOutDate, q.DiscountType, q.DiscountValue)
	q.UpdatedAt = time.Now().UTC()
	obs.ObserveQuoteRecalc()
	if err := s.Drafts.Put(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}
