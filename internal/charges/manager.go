// Package charges manages the special-charge line items of a draft quote:
// custom rows, catalog-backed presets, and the system-owned extra-person row
// derived from room occupancy.
package charges

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stayware/lodge-api/internal/billing"
)

// Preset identifiers accepted by AddPreset.
const (
	PresetKitchen     = "kitchen"
	PresetCampfire    = "campfire"
	PresetConference  = "conference"
	PresetExtraPerson = "extra_person"
)

// ExtraPersonPrefix identifies the single system-managed line item. The
// engine owns its presence and quantity; user edits to other rows are never
// touched by the sync.
const ExtraPersonPrefix = "Extra Person"

// presetNames maps preset identifiers to catalog charge names.
var presetNames = map[string]string{
	PresetKitchen:     "Kitchen",
	PresetCampfire:    "Campfire",
	PresetConference:  "Conference Hall",
	PresetExtraPerson: ExtraPersonPrefix,
}

// PresetName resolves a preset identifier to its catalog charge name.
func PresetName(kind string) (string, bool) {
	name, ok := presetNames[strings.ToLower(strings.TrimSpace(kind))]
	return name, ok
}

// Patch carries optional replacements for one line item. Nil fields are
// left unchanged.
type Patch struct {
	Name        *string        `json:"name,omitempty"`
	Amount      *billing.Money `json:"amount,omitempty"`
	Quantity    *int64         `json:"quantity,omitempty"`
	Description *string        `json:"description,omitempty"`
}

// SyncState records the (extra persons, nights) pair of the last derivation
// so unchanged inputs skip the rewrite and cannot re-trigger themselves.
type SyncState struct {
	ExtraPersons int `json:"extraPersons"`
	Nights       int `json:"nights"`
}

// AddCustom appends a blank user-editable line item and returns the new list.
func AddCustom(items []billing.LineItem) []billing.LineItem {
	out := append([]billing.LineItem(nil), items...)
	return append(out, billing.LineItem{
		ID:       uuid.NewString(),
		Name:     "",
		Amount:   0,
		Quantity: 1,
	})
}

// AddPreset adds a catalog-backed charge. If an item linked to the same
// master already exists its quantity is bumped by one instead of inserting a
// duplicate row. An unknown preset or a missing master is a logged no-op.
func AddPreset(items []billing.LineItem, kind string, masters []billing.ChargeMaster, log zerolog.Logger) []billing.LineItem {
	name, ok := PresetName(kind)
	if !ok {
		log.Warn().Str("preset", kind).Msg("unknown charge preset")
		return items
	}
	master, ok := findMaster(masters, name)
	if !ok {
		log.Warn().Str("charge", name).Msg("special charge master not found")
		return items
	}
	out := append([]billing.LineItem(nil), items...)
	for i, it := range out {
		if it.MasterID != nil && *it.MasterID == master.ID {
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			out[i].Quantity = qty + 1
			return out
		}
	}
	masterID := master.ID
	return append(out, billing.LineItem{
		ID:          uuid.NewString(),
		MasterID:    &masterID,
		Name:        master.Name,
		Amount:      master.DefaultRate,
		Quantity:    1,
		Description: master.Description,
	})
}

// Apply replaces the patched fields of the item matching id. Unknown ids are
// a no-op.
func Apply(items []billing.LineItem, id string, patch Patch) []billing.LineItem {
	out := append([]billing.LineItem(nil), items...)
	for i, it := range out {
		if it.ID != id {
			continue
		}
		if patch.Name != nil {
			out[i].Name = *patch.Name
		}
		if patch.Amount != nil {
			out[i].Amount = *patch.Amount
		}
		if patch.Quantity != nil {
			out[i].Quantity = *patch.Quantity
		}
		if patch.Description != nil {
			out[i].Description = *patch.Description
		}
		break
	}
	return out
}

// Remove filters out the item matching id. Unknown ids are a no-op.
func Remove(items []billing.LineItem, id string) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			continue
		}
		out = append(out, it)
	}
	return out
}

// DeriveExtraPerson keeps the single extra-person line item in sync with
// room occupancy and stay length. It is invoked once per explicit input
// change rather than as a reactive watcher; the previous SyncState guards
// against redundant rewrites when the (extra persons, nights) pair is
// unchanged. Quantity folds person-count and night-count together, so the
// extended value is rate times persons times nights.
func DeriveExtraPerson(items []billing.LineItem, allocations []billing.RoomAllocation, nights int, masters []billing.ChargeMaster, prev SyncState, log zerolog.Logger) ([]billing.LineItem, SyncState) {
	extra := billing.ExtraPersons(allocations)
	if extra == prev.ExtraPersons && nights == prev.Nights {
		return items, prev
	}
	next := SyncState{ExtraPersons: extra, Nights: nights}

	if extra == 0 {
		return removeExtraPerson(items), next
	}

	master, ok := findMaster(masters, ExtraPersonPrefix)
	if !ok {
		log.Warn().Str("charge", ExtraPersonPrefix).Msg("extra person master not found, charges left unchanged")
		return items, prev
	}

	out := removeExtraPerson(items)
	masterID := master.ID
	out = append(out, billing.LineItem{
		ID:          uuid.NewString(),
		MasterID:    &masterID,
		Name:        fmt.Sprintf("%s (%d)", ExtraPersonPrefix, extra),
		Amount:      master.DefaultRate,
		Quantity:    int64(extra) * int64(nights),
		Description: fmt.Sprintf("%d extra person(s) for %d night(s)", extra, nights),
	})
	return out, next
}

func removeExtraPerson(items []billing.LineItem) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(it.Name, ExtraPersonPrefix) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func findMaster(masters []billing.ChargeMaster, name string) (billing.ChargeMaster, bool) {
	for _, m := range masters {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return billing.ChargeMaster{}, false
}
