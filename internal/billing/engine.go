package billing

import (
	"math"
	"time"
)

// dateLayout is the wire format for stay dates supplied by the booking form.
const dateLayout = "2006-01-02"

// Nights computes the number of nights between two YYYY-MM-DD dates as
// ceil((checkOut - checkIn) / 1 day). Ordering is not validated: a checkout
// on or before checkin yields a zero or negative count, which callers let
// propagate through the arithmetic. Unparseable dates count as zero.
func Nights(checkIn, checkOut string) int {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0
	}
	return int(math.Ceil(out.Sub(in).Hours() / 24))
}

// RoomTariff sums tariff times nights over all allocations. No allocations
// means zero. Tariff signs are not validated.
func RoomTariff(allocations []RoomAllocation, nights int) Money {
	var total Money
	for _, a := range allocations {
		total += a.Tariff * Money(nights)
	}
	return total
}

// ChargesTotal sums the extended value of every line item. A zero or
// negative quantity is treated as one, matching the form default.
func ChargesTotal(items []LineItem) Money {
	var total Money
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += it.Amount * Money(qty)
	}
	return total
}

// DiscountAmount resolves the discount for a subtotal. Percentage results
// are rounded to the nearest minor unit. The value is deliberately not
// clamped to [0,100] or [0,subtotal]; only Summarize floors the final total.
func DiscountAmount(subtotal Money, typ DiscountType, value float64) Money {
	switch typ {
	case DiscountTypePercentage:
		return Money(math.Round(float64(subtotal) * value / 100))
	case DiscountTypeAmount:
		return Money(math.Round(value))
	default:
		return 0
	}
}

// ExtraPersons counts occupants beyond room capacity across all allocations.
func ExtraPersons(allocations []RoomAllocation) int {
	var extra int
	for _, a := range allocations {
		if over := a.GuestCount - a.Capacity; over > 0 {
			extra += over
		}
	}
	return extra
}

// Summarize computes the full payable breakdown for a stay. Intermediate
// values are permissive: a discount larger than the subtotal is absorbed by
// the final floor at zero rather than rejected.
func Summarize(allocations []RoomAllocation, items []LineItem, checkIn, checkOut string, typ DiscountType, value float64) Calculation {
	nights := Nights(checkIn, checkOut)
	tariff := RoomTariff(allocations, nights)
	chargesTotal := ChargesTotal(items)
	subtotal := tariff + chargesTotal
	discount := DiscountAmount(subtotal, typ, value)
	final := subtotal - discount
	if final < 0 {
		final = 0
	}
	return Calculation{
		RoomTariff:     tariff,
		Nights:         nights,
		ChargesTotal:   chargesTotal,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		FinalTotal:     final,
	}
}
