package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/common"
	"github.com/stayware/lodge-api/internal/quote"
)

type stubCatalog struct {
	masters []billing.ChargeMaster
}

func (s stubCatalog) Masters(context.Context) ([]billing.ChargeMaster, error) {
	return s.masters, nil
}

type stubConfirmer struct {
	confirmed []quote.Quote
	err       error
}

func (s *stubConfirmer) CreateFromQuote(_ context.Context, q quote.Quote) (quote.ConfirmResult, error) {
	if s.err != nil {
		return quote.ConfirmResult{}, s.err
	}
	s.confirmed = append(s.confirmed, q)
	return quote.ConfirmResult{ReservationID: "r-1", Reference: "LDG-0001"}, nil
}

func newTestService(t *testing.T) (*quote.Service, *stubConfirmer) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	confirmer := &stubConfirmer{}
	svc := &quote.Service{
		Drafts: &quote.Store{R: rdb, TTL: time.Hour},
		Catalog: stubCatalog{masters: []billing.ChargeMaster{
			{ID: "m-extra", Name: "Extra Person", DefaultRate: 200, RateType: "per_person"},
			{ID: "m-kitchen", Name: "Kitchen", DefaultRate: 500, RateType: "flat"},
		}},
		Reservations: confirmer,
		Log:          zerolog.Nop(),
	}
	return svc, confirmer
}

func TestCreateComputesInitialSummary(t *testing.T) {
	svc, _ := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-04",
		Allocations: []billing.RoomAllocation{
			{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2},
			{RoomNumber: "102", Tariff: 1500, Capacity: 2, GuestCount: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, q.Calculation.Nights)
	require.EqualValues(t, 7500, q.Calculation.RoomTariff)
	require.EqualValues(t, 7500, q.Calculation.FinalTotal)
	require.Equal(t, billing.DiscountTypeNone, q.DiscountType)
}

func TestExtraPersonDerivedOnStayChange(t *testing.T) {
	svc, _ := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-03",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 3}},
	})
	require.NoError(t, err)
	require.Len(t, q.Charges, 1)
	// 1 extra person x 2 nights folded into quantity at the catalog rate.
	require.EqualValues(t, 2, q.Charges[0].Quantity)
	require.EqualValues(t, 200, q.Charges[0].Amount)
	require.EqualValues(t, 2000+400, q.Calculation.Subtotal)

	// Dropping occupancy back under capacity removes the derived row.
	q, err = svc.SetStay(context.Background(), q.ID, quote.StayInput{
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-03",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2}},
	})
	require.NoError(t, err)
	require.Empty(t, q.Charges)
}

func TestRepeatedRecomputeIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-03",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 3}},
	})
	require.NoError(t, err)
	require.Len(t, q.Charges, 1)
	derivedID := q.Charges[0].ID

	// Unrelated mutations must not duplicate or rewrite the derived row.
	q, err = svc.SetPaymentMethod(context.Background(), q.ID, "cash")
	require.NoError(t, err)
	q, err = svc.AddCustomCharge(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, q.Charges, 2)
	require.Equal(t, derivedID, q.Charges[0].ID)
}

func TestDiscountAndFinalFloor(t *testing.T) {
	svc, _ := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-02",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2}},
	})
	require.NoError(t, err)

	q, err = svc.SetDiscount(context.Background(), q.ID, quote.DiscountInput{Type: billing.DiscountTypeAmount, Value: 5000})
	require.NoError(t, err)
	require.EqualValues(t, 5000, q.Calculation.DiscountAmount)
	require.EqualValues(t, 0, q.Calculation.FinalTotal)

	q, err = svc.SetDiscount(context.Background(), q.ID, quote.DiscountInput{Type: billing.DiscountTypePercentage, Value: 10})
	require.NoError(t, err)
	require.EqualValues(t, 100, q.Calculation.DiscountAmount)
	require.EqualValues(t, 900, q.Calculation.FinalTotal)
}

func TestPresetTapToIncrement(t *testing.T) {
	svc, _ := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-02",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2}},
	})
	require.NoError(t, err)

	q, err = svc.AddPresetCharge(context.Background(), q.ID, "kitchen")
	require.NoError(t, err)
	q, err = svc.AddPresetCharge(context.Background(), q.ID, "kitchen")
	require.NoError(t, err)
	require.Len(t, q.Charges, 1)
	require.EqualValues(t, 2, q.Charges[0].Quantity)
	require.EqualValues(t, 1000+1000, q.Calculation.Subtotal)
}

func TestConfirmRequiresPaymentMethod(t *testing.T) {
	svc, confirmer := newTestService(t)
	q, err := svc.Create(context.Background(), quote.CreateInput{
		GuestName:    "Asha Verma",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-02",
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), q.ID)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, map[string]string{"paymentMethod": "required"}, appErr.Details)
	require.Empty(t, confirmer.confirmed)

	_, err = svc.SetPaymentMethod(context.Background(), q.ID, "upi")
	require.NoError(t, err)
	res, err := svc.Confirm(context.Background(), q.ID)
	require.NoError(t, err)
	require.Equal(t, "LDG-0001", res.Reference)
	require.Len(t, confirmer.confirmed, 1)

	// Confirmation consumes the draft.
	_, err = svc.Get(context.Background(), q.ID)
	require.Error(t, err)
}
