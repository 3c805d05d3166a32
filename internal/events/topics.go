package events

// Topic constants for domain events emitted by the reservation platform.
const (
	TopicQuoteConfirmed      = "quote.confirmed"
	TopicReservationCreated  = "reservation.created"
	TopicReservationCanceled = "reservation.canceled"
)

// DefaultTopics returns the canonical list of topics downstream consumers
// may subscribe to.
func DefaultTopics() []string {
	return []string{
		TopicQuoteConfirmed,
		TopicReservationCreated,
		TopicReservationCanceled,
	}
}
