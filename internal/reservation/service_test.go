package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/events"
	"github.com/stayware/lodge-api/internal/quote"
	"github.com/stayware/lodge-api/internal/reservation"
)

type memRepo struct {
	rows map[uuid.UUID]reservation.Reservation
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]reservation.Reservation{}}
}

func (m *memRepo) Insert(_ context.Context, r reservation.Reservation) error {
	m.rows[r.ID] = r
	return nil
}

func (m *memRepo) List(context.Context) ([]reservation.Reservation, error) {
	out := make([]reservation.Reservation, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (reservation.Reservation, error) {
	r, ok := m.rows[id]
	if !ok {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status reservation.Status) (reservation.Reservation, error) {
	r, ok := m.rows[id]
	if !ok {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	r.Status = status
	m.rows[id] = r
	return r, nil
}

type memEventStore struct {
	topics []string
}

func (m *memEventStore) InsertEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (events.Event, error) {
	m.topics = append(m.topics, topic)
	return events.Event{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload, OccurredAt: time.Now()}, nil
}

func newTestService() (*reservation.Service, *memRepo, *memEventStore) {
	repo := newMemRepo()
	store := &memEventStore{}
	svc := &reservation.Service{
		Repo:   repo,
		Events: &events.Bus{Store: store},
		Log:    zerolog.Nop(),
	}
	return svc, repo, store
}

func confirmedQuote() quote.Quote {
	return quote.Quote{
		ID:           uuid.NewString(),
		GuestName:    "Asha Verma",
		GuestPhone:   "+91 98765 43210",
		CheckInDate:  "2025-06-10",
		CheckOutDate: "2025-06-12",
		Allocations:  []billing.RoomAllocation{{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2}},
		Charges:      []billing.LineItem{{ID: "c1", Name: "Kitchen", Amount: 500, Quantity: 1}},
		DiscountType: billing.DiscountTypePercentage, DiscountValue: 10,
		PaymentMethod: "cash",
		Calculation:   billing.Calculation{RoomTariff: 2000, Nights: 2, ChargesTotal: 500, Subtotal: 2500, DiscountAmount: 250, FinalTotal: 2250},
	}
}

func TestCreateFromQuote(t *testing.T) {
	svc, repo, store := newTestService()
	res, err := svc.CreateFromQuote(context.Background(), confirmedQuote())
	require.NoError(t, err)
	require.NotEmpty(t, res.ReservationID)
	require.Regexp(t, `^LDG-[0-9A-F]{8}$`, res.Reference)

	saved, err := repo.GetByID(context.Background(), uuid.MustParse(res.ReservationID))
	require.NoError(t, err)
	require.Equal(t, reservation.StatusConfirmed, saved.Status)
	// Charges and discount are handed off verbatim from the quote.
	require.Len(t, saved.Charges, 1)
	require.EqualValues(t, 2250, saved.Calculation.FinalTotal)
	require.Equal(t, []string{events.TopicQuoteConfirmed, events.TopicReservationCreated}, store.topics)
}

func TestCancel(t *testing.T) {
	svc, _, store := newTestService()
	res, err := svc.CreateFromQuote(context.Background(), confirmedQuote())
	require.NoError(t, err)

	canceled, err := svc.Cancel(context.Background(), res.ReservationID)
	require.NoError(t, err)
	require.Equal(t, reservation.StatusCanceled, canceled.Status)
	require.Contains(t, store.topics, events.TopicReservationCanceled)

	_, err = svc.Cancel(context.Background(), res.ReservationID)
	require.Error(t, err, "double cancel must conflict")
}

func TestListFilters(t *testing.T) {
	svc, repo, _ := newTestService()
	q1 := confirmedQuote()
	_, err := svc.CreateFromQuote(context.Background(), q1)
	require.NoError(t, err)

	q2 := confirmedQuote()
	q2.GuestName = "Rahul Nair"
	q2.CheckInDate = "2025-07-01"
	q2.CheckOutDate = "2025-07-03"
	_, err = svc.CreateFromQuote(context.Background(), q2)
	require.NoError(t, err)
	require.Len(t, repo.rows, 2)

	list, err := svc.List(context.Background(), reservation.ListParams{
		Range: reservation.RangeCustom, From: "2025-06-01", To: "2025-06-30",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Asha Verma", list[0].GuestName)

	list, err = svc.List(context.Background(), reservation.ListParams{Query: "rahul"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Rahul Nair", list[0].GuestName)
}
