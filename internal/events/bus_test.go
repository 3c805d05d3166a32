package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubStore struct {
	inserted []Event
	fail     bool
}

func (s *stubStore) InsertEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (Event, error) {
	if s.fail {
		return Event{}, errors.New("insert failed")
	}
	ev := Event{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload, OccurredAt: time.Now()}
	s.inserted = append(s.inserted, ev)
	return ev, nil
}

type recordingNotifier struct {
	seen []Event
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, event Event) error {
	n.seen = append(n.seen, event)
	return n.err
}

func TestEmitPersistsAndFansOut(t *testing.T) {
	store := &stubStore{}
	notifier := &recordingNotifier{}
	bus := &Bus{Store: store, Notifiers: []Notifier{notifier}}

	ev, err := bus.Emit(context.Background(), TopicReservationCreated, uuid.New(), map[string]string{"reference": "LDG-1"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(store.inserted))
	}
	if len(notifier.seen) != 1 || notifier.seen[0].ID != ev.ID {
		t.Fatal("notifier did not receive the emitted event")
	}
}

func TestEmitRequiresTopicAndAggregate(t *testing.T) {
	bus := &Bus{Store: &stubStore{}}
	if _, err := bus.Emit(context.Background(), "", uuid.New(), nil); err == nil {
		t.Fatal("expected error for empty topic")
	}
	if _, err := bus.Emit(context.Background(), TopicQuoteConfirmed, uuid.Nil, nil); err == nil {
		t.Fatal("expected error for nil aggregate id")
	}
}

func TestEmitNotifierFailureDoesNotDropEvent(t *testing.T) {
	store := &stubStore{}
	bus := &Bus{Store: store, Notifiers: []Notifier{&recordingNotifier{err: errors.New("boom")}}}
	_, err := bus.Emit(context.Background(), TopicReservationCanceled, uuid.New(), nil)
	if err == nil {
		t.Fatal("notifier failure should surface")
	}
	if len(store.inserted) != 1 {
		t.Fatal("event must persist despite notifier failure")
	}
}

func TestEmitRejectsInvalidJSONPayload(t *testing.T) {
	bus := &Bus{Store: &stubStore{}}
	if _, err := bus.Emit(context.Background(), TopicQuoteConfirmed, uuid.New(), []byte("{not json")); err == nil {
		t.Fatal("expected invalid payload error")
	}
}
