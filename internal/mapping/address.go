package mapping

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// AddressKind names one of the postal addresses a contact carries.
type AddressKind string

const (
	AddressHome     AddressKind = "home"
	AddressBusiness AddressKind = "business"
	AddressOther    AddressKind = "other"
)

// addressFields are the sub-field names of an address document, in the
// order of the tags in addressTags.
var addressFields = [5]string{"street", "city", "postalCode", "state", "countryOrRegion"}

// addressTags holds street, city, postal code, state and country tags.
type addressTags [5]types.PropTag

var addressKinds = map[AddressKind]addressTags{
	AddressHome: {
		types.TagHomeAddressStreet,
		types.TagHomeAddressCity,
		types.TagHomeAddressPostalCode,
		types.TagHomeAddressState,
		types.TagHomeAddressCountry,
	},
	AddressBusiness: {
		types.TagWorkAddressStreet,
		types.TagWorkAddressCity,
		types.TagWorkAddressPostalCode,
		types.TagWorkAddressState,
		types.TagWorkAddressCountry,
	},
	AddressOther: {
		types.TagOtherAddressStreet,
		types.TagOtherAddressCity,
		types.TagOtherAddressPostalCode,
		types.TagOtherAddressState,
		types.TagOtherAddressCountry,
	},
}

// PhysicalAddress is the decoded input form of an address sub-object. A nil
// field was not present in the input.
type PhysicalAddress struct {
	Street          *string `mapstructure:"street"`
	City            *string `mapstructure:"city"`
	PostalCode      *string `mapstructure:"postalCode"`
	State           *string `mapstructure:"state"`
	CountryOrRegion *string `mapstructure:"countryOrRegion"`
}

func (a *PhysicalAddress) values() [5]*string {
	return [5]*string{a.Street, a.City, a.PostalCode, a.State, a.CountryOrRegion}
}

// addressObject returns v as a map when it is a JSON object.
func addressObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case types.Document:
		return m, true
	}
	return nil, false
}

// DecodeAddress converts an input sub-object into a PhysicalAddress.
// Unknown keys are ignored. Returns ErrInvalidShape if v is not an object or
// a known sub-field is not a string.
func DecodeAddress(v any) (*PhysicalAddress, error) {
	obj, ok := addressObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected address object, got %T", ErrInvalidShape, v)
	}
	var addr PhysicalAddress
	if err := mapstructure.Decode(obj, &addr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return &addr, nil
}

// ReadAddress builds the address document of the given kind. Only non-empty
// sub-fields are included; an address with none yields an empty document.
func ReadAddress(item types.Item, kind AddressKind) types.Document {
	tags := addressKinds[kind]
	doc := types.Document{}
	for i, tag := range tags {
		if s, ok := textValue(item, tag); ok && s != "" {
			doc[addressFields[i]] = s
		}
	}
	return doc
}

// WriteAddress sets the sub-fields present in v. Absent sub-fields are left
// unmodified; a null sub-field is removed, and a null v removes all five.
func WriteAddress(item types.Item, kind AddressKind, v any) error {
	tags, ok := addressKinds[kind]
	if !ok {
		return fmt.Errorf("unknown address kind %q", kind)
	}
	if v == nil {
		for _, tag := range tags {
			if err := item.SetValue(tag, nil); err != nil {
				return err
			}
		}
		return nil
	}
	addr, err := DecodeAddress(v)
	if err != nil {
		return err
	}
	obj, _ := addressObject(v)
	for i, val := range addr.values() {
		if val != nil {
			if err := item.SetValue(tags[i], *val); err != nil {
				return err
			}
			continue
		}
		if x, present := obj[addressFields[i]]; present && x == nil {
			if err := item.SetValue(tags[i], nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func readAddress(kind AddressKind) Reader {
	return func(item types.Item) any {
		return ReadAddress(item, kind)
	}
}

func writeAddress(kind AddressKind) Writer {
	return func(item types.Item, v any) error {
		return WriteAddress(item, kind, v)
	}
}
