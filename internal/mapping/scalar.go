package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// textValue returns the string stored under tag.
func textValue(item types.Item, tag types.PropTag) (string, bool) {
	v, ok := item.Value(tag)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// readText reads a text property; an empty string reads as absent.
func readText(tag types.PropTag) Reader {
	return func(item types.Item) any {
		if s, ok := textValue(item, tag); ok && s != "" {
			return s
		}
		return nil
	}
}

// readRawText reads a text property as stored, empty strings included.
func readRawText(tag types.PropTag) Reader {
	return func(item types.Item) any {
		if s, ok := textValue(item, tag); ok {
			return s
		}
		return nil
	}
}

// writeText sets a text property from a string input. Null removes it.
func writeText(tag types.PropTag) Writer {
	return func(item types.Item, v any) error {
		if v == nil {
			return item.SetValue(tag, nil)
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: expected string, got %T", ErrInvalidShape, v)
		}
		return item.SetValue(tag, s)
	}
}

// writeStringified sets a text property from any scalar input, converting
// numbers and booleans to their string form.
func writeStringified(tag types.PropTag) Writer {
	return func(item types.Item, v any) error {
		switch x := v.(type) {
		case nil:
			return item.SetValue(tag, nil)
		case string:
			return item.SetValue(tag, x)
		case float64:
			return item.SetValue(tag, strconv.FormatFloat(x, 'f', -1, 64))
		case bool, int, int64:
			return item.SetValue(tag, fmt.Sprint(x))
		default:
			return fmt.Errorf("%w: expected scalar, got %T", ErrInvalidShape, v)
		}
	}
}

// decodeStrings converts a JSON array input to []string.
func decodeStrings(v any) ([]string, error) {
	var out []string
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return out, nil
}

// readList reads a list property; absent reads as an empty list.
func readList(tag types.PropTag) Reader {
	return func(item types.Item) any {
		v, _ := item.Value(tag)
		list, _ := v.([]string)
		return append([]string{}, list...)
	}
}

// writeList sets a list property from a JSON array of strings.
func writeList(tag types.PropTag) Writer {
	return func(item types.Item, v any) error {
		if v == nil {
			return item.SetValue(tag, nil)
		}
		list, err := decodeStrings(v)
		if err != nil {
			return err
		}
		return item.SetValue(tag, list)
	}
}

// joinSeparator separates the entries of a list folded into one text tag.
const joinSeparator = ", "

// readJoined splits a text property folded from a list back into entries.
func readJoined(tag types.PropTag) Reader {
	return func(item types.Item) any {
		s, ok := textValue(item, tag)
		if !ok || s == "" {
			return []string{}
		}
		return strings.Split(s, joinSeparator)
	}
}

// writeJoined folds a JSON array of strings into one text property.
func writeJoined(tag types.PropTag) Writer {
	return func(item types.Item, v any) error {
		if v == nil {
			return item.SetValue(tag, nil)
		}
		list, err := decodeStrings(v)
		if err != nil {
			return err
		}
		return item.SetValue(tag, strings.Join(list, joinSeparator))
	}
}
