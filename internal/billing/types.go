package billing

// Money represents a monetary value stored in minor units.
type Money = int64

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	// DiscountTypeNone disables discounting; the value is ignored.
	DiscountTypeNone DiscountType = "none"
	// DiscountTypePercentage treats the value as a percentage of the subtotal.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeAmount treats the value as a flat amount in minor units.
	DiscountTypeAmount DiscountType = "amount"
)

// RoomAllocation is one room assigned to a stay. GuestCount may exceed
// Capacity; the excess drives the derived extra-person charge.
type RoomAllocation struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	RoomType   string `json:"roomType"`
	Capacity   int    `json:"capacity"`
	Tariff     Money  `json:"tariff"`
	GuestCount int    `json:"guestCount"`
}

// LineItem is one billable special charge. Amount is the rate, not the
// extended value; the extended value is Amount times Quantity.
type LineItem struct {
	ID          string  `json:"id"`
	MasterID    *string `json:"masterId,omitempty"`
	Name        string  `json:"name"`
	Amount      Money   `json:"amount"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description,omitempty"`
}

// ChargeMaster is a catalog entry supplying defaults for a special charge.
type ChargeMaster struct {
	ID          string `json:"id"`
	Name        string `json:"chargeName"`
	DefaultRate Money  `json:"defaultRate"`
	Description string `json:"description,omitempty"`
	RateType    string `json:"rateType"`
}

// Calculation aggregates computed billing components for a stay. It is
// derived output, recomputed from scratch on every input change and never
// stored by the engine.
type Calculation struct {
	RoomTariff     Money `json:"roomTariff"`
	Nights         int   `json:"numberOfDays"`
	ChargesTotal   Money `json:"specialChargesTotal"`
	Subtotal       Money `json:"subtotal"`
	DiscountAmount Money `json:"discountAmount"`
	FinalTotal     Money `json:"finalTotal"`
}
