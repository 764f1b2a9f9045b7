package mapping

import (
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// readPhones collects the non-empty values of tags in declaration order.
func readPhones(tags ...types.PropTag) Reader {
	return func(item types.Item) any {
		phones := []string{}
		for _, tag := range tags {
			if s, ok := textValue(item, tag); ok && s != "" {
				phones = append(phones, s)
			}
		}
		return phones
	}
}

// writePhones writes a JSON array of numbers positionally into tags. Extra
// values are dropped and trailing tags are left untouched. Null removes
// every tag.
func writePhones(tags ...types.PropTag) Writer {
	return func(item types.Item, v any) error {
		if v == nil {
			for _, tag := range tags {
				if err := item.SetValue(tag, nil); err != nil {
					return err
				}
			}
			return nil
		}
		phones, err := decodeStrings(v)
		if err != nil {
			return err
		}
		return types.SetValues(item, phones, tags)
	}
}
