package mapping

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// timestampLayout is the only accepted input form: date, time, a fraction
// of one to six digits, and a numeric UTC offset.
const timestampLayout = "2006-01-02T15:04:05.999999-0700"

// dateTimeLayout is the output form of timestamp fields.
const dateTimeLayout = "2006-01-02T15:04:05Z"

// strictTimestamp rejects inputs the lenient time.Parse would still accept,
// such as a missing fraction or an "hh:mm" offset.
var strictTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,6}[+-]\d{4}$`)

// ParseTimestamp parses a strict ISO-8601 timestamp. A trailing "Z" is
// rewritten to "+0000" first; any other zone notation is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+0000"
	}
	if err := validation.Validate(s, validation.Required, validation.Match(strictTimestamp)); err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidFormat, s, err)
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidFormat, s, err)
	}
	return t, nil
}

// FormatTimestamp renders t as an ISO-8601 UTC date-time.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

// readTimestamp reads a timestamp property as an ISO-8601 string.
func readTimestamp(tag types.PropTag) Reader {
	return func(item types.Item) any {
		v, ok := item.Value(tag)
		if !ok {
			return nil
		}
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return nil
		}
		return FormatTimestamp(t)
	}
}

// writeTimestamp sets a timestamp property from a strict timestamp string.
// Parse failures are format errors, which stop the whole write.
func writeTimestamp(tag types.PropTag) Writer {
	return func(item types.Item, v any) error {
		if v == nil {
			return item.SetValue(tag, nil)
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: expected timestamp string, got %T", ErrInvalidFormat, v)
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		return item.SetValue(tag, t)
	}
}
