package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// encodeValue serializes a property value as JSON text. Timestamps are
// stored as RFC 3339 UTC strings; binary values as base64 strings.
func encodeValue(valueType string, v any) (string, error) {
	if valueType == types.ValueTypeTimestamp {
		t, ok := v.(time.Time)
		if !ok {
			return "", types.ErrTypeMismatch
		}
		v = t.UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s value: %w", valueType, err)
	}
	return string(data), nil
}

// decodeValue parses a stored value back into the Go type CheckValue expects.
func decodeValue(valueType, raw string) (any, error) {
	data := []byte(raw)
	switch valueType {
	case types.ValueTypeText:
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	case types.ValueTypeInteger:
		var n int64
		err := json.Unmarshal(data, &n)
		return n, err
	case types.ValueTypeTimestamp:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	case types.ValueTypeBinary:
		var b []byte
		err := json.Unmarshal(data, &b)
		return b, err
	case types.ValueTypeList:
		var l []string
		err := json.Unmarshal(data, &l)
		if l == nil {
			l = []string{}
		}
		return l, err
	default:
		return nil, types.ErrInvalidValueType
	}
}
