package billing

import "testing"

func TestNights(t *testing.T) {
	if got := Nights("2025-01-01", "2025-01-04"); got != 3 {
		t.Fatalf("expected 3 nights, got %d", got)
	}
	if got := Nights("2025-01-04", "2025-01-01"); got != -3 {
		t.Fatalf("expected negative span to propagate, got %d", got)
	}
	if got := Nights("2025-01-01", "2025-01-01"); got != 0 {
		t.Fatalf("expected 0 nights for same day, got %d", got)
	}
	if got := Nights("not-a-date", "2025-01-04"); got != 0 {
		t.Fatalf("expected 0 for unparseable date, got %d", got)
	}
}

func TestRoomTariffLinearity(t *testing.T) {
	allocations := []RoomAllocation{
		{RoomNumber: "101", Tariff: 1000, Capacity: 2, GuestCount: 2},
		{RoomNumber: "102", Tariff: 1500, Capacity: 2, GuestCount: 2},
	}
	if got := RoomTariff(allocations, 2); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}
	if got := RoomTariff(nil, 3); got != 0 {
		t.Fatalf("expected 0 for no allocations, got %d", got)
	}
}

func TestChargesTotalExtension(t *testing.T) {
	items := []LineItem{
		{Name: "Campfire", Amount: 300, Quantity: 4},
		{Name: "Kitchen", Amount: 500}, // quantity omitted defaults to 1
	}
	if got := ChargesTotal(items); got != 1700 {
		t.Fatalf("expected 1700, got %d", got)
	}
}

func TestDiscountAmount(t *testing.T) {
	if got := DiscountAmount(10000, DiscountTypePercentage, 10); got != 1000 {
		t.Fatalf("percentage: expected 1000, got %d", got)
	}
	if got := DiscountAmount(10000, DiscountTypeAmount, 1500); got != 1500 {
		t.Fatalf("flat: expected 1500, got %d", got)
	}
	if got := DiscountAmount(10000, DiscountTypeNone, 99); got != 0 {
		t.Fatalf("none: expected 0, got %d", got)
	}
	// Over-subtotal and over-100-percent values pass through unclamped.
	if got := DiscountAmount(1000, DiscountTypeAmount, 5000); got != 5000 {
		t.Fatalf("expected unclamped 5000, got %d", got)
	}
	if got := DiscountAmount(1000, DiscountTypePercentage, 150); got != 1500 {
		t.Fatalf("expected unclamped 1500, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	allocations := []RoomAllocation{
		{RoomNumber: "101", Tariff: 2000, Capacity: 2, GuestCount: 2},
	}
	items := []LineItem{{Name: "Conference Hall", Amount: 1500, Quantity: 2}}

	calc := Summarize(allocations, items, "2025-03-10", "2025-03-12", DiscountTypePercentage, 10)
	if calc.Nights != 2 {
		t.Fatalf("expected 2 nights, got %d", calc.Nights)
	}
	if calc.RoomTariff != 4000 {
		t.Fatalf("expected tariff 4000, got %d", calc.RoomTariff)
	}
	if calc.ChargesTotal != 3000 {
		t.Fatalf("expected charges 3000, got %d", calc.ChargesTotal)
	}
	if calc.Subtotal != 7000 {
		t.Fatalf("expected subtotal 7000, got %d", calc.Subtotal)
	}
	if calc.DiscountAmount != 700 {
		t.Fatalf("expected discount 700, got %d", calc.DiscountAmount)
	}
	if calc.FinalTotal != 6300 {
		t.Fatalf("expected final 6300, got %d", calc.FinalTotal)
	}
}

func TestSummarizeFloorsFinalTotal(t *testing.T) {
	allocations := []RoomAllocation{{Tariff: 1000, Capacity: 2, GuestCount: 2}}
	calc := Summarize(allocations, nil, "2025-03-10", "2025-03-11", DiscountTypeAmount, 5000)
	if calc.DiscountAmount != 5000 {
		t.Fatalf("intermediate discount should stay unclamped, got %d", calc.DiscountAmount)
	}
	if calc.FinalTotal != 0 {
		t.Fatalf("final total must floor at zero, got %d", calc.FinalTotal)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	allocations := []RoomAllocation{{Tariff: 1200, Capacity: 2, GuestCount: 3}}
	items := []LineItem{{Name: "Extra Person (3 nights)", Amount: 200, Quantity: 3}}
	first := Summarize(allocations, items, "2025-05-01", "2025-05-04", DiscountTypeAmount, 100)
	second := Summarize(allocations, items, "2025-05-01", "2025-05-04", DiscountTypeAmount, 100)
	if first != second {
		t.Fatalf("identical inputs must produce identical calculations: %+v vs %+v", first, second)
	}
}

func TestExtraPersons(t *testing.T) {
	allocations := []RoomAllocation{
		{Capacity: 2, GuestCount: 4},
		{Capacity: 3, GuestCount: 2}, // under capacity never offsets the excess
		{Capacity: 2, GuestCount: 3},
	}
	if got := ExtraPersons(allocations); got != 3 {
		t.Fatalf("expected 3 extra persons, got %d", got)
	}
}
