package mapping

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// EmailAddress is one entry of a contact's emailAddresses list.
type EmailAddress struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// Validate requires a non-empty address.
func (e EmailAddress) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Address, validation.Required),
	)
}

// readEmailAddresses maps each stored e-mail slot with an address to a
// {name, address} document.
func readEmailAddresses(item types.Item) any {
	addrs := []any{}
	for _, slot := range types.EmailSlots {
		addr, ok := textValue(item, slot.Address)
		if !ok || addr == "" {
			continue
		}
		name, _ := textValue(item, slot.DisplayName)
		addrs = append(addrs, types.Document{"name": name, "address": addr})
	}
	return addrs
}

// writeEmailAddresses stores only the first input address, in the first
// slot. The remaining slots and any further input entries are untouched.
func writeEmailAddresses(item types.Item, v any) error {
	var addrs []EmailAddress
	if err := mapstructure.Decode(v, &addrs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if len(addrs) == 0 {
		return nil
	}
	first := addrs[0]
	if err := first.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	slot := types.EmailSlots[0]
	if err := item.SetValue(slot.DisplayName, first.Name); err != nil {
		return err
	}
	return item.SetValue(slot.Address, first.Address)
}
