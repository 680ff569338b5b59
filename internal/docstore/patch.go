package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Patch maps top-level field names to new values. Values may be plain data
// or one of the transforms returned by ArrayUnion and Increment.
type Patch map[string]any

type arrayUnion struct {
	values []any
}

// ArrayUnion appends each value to an array field unless an equal element
// is already present. A missing field is treated as an empty array.
func ArrayUnion(values ...any) any {
	return arrayUnion{values: values}
}

type increment struct {
	by float64
}

// Increment adds n to a numeric field. A missing field counts as zero.
func Increment(n int64) any {
	return increment{by: float64(n)}
}

func encodeDoc(doc any) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrNotObject
	}
	return data, nil
}

// normalize converts a Go value to the shape encoding/json produces when
// decoding into any, so it compares equal to stored values.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func applyPatch(body []byte, patch Patch) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	for field, value := range patch {
		switch v := value.(type) {
		case arrayUnion:
			existing, _ := doc[field].([]any)
			for _, raw := range v.values {
				item, err := normalize(raw)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", field, err)
				}
				if !containsValue(existing, item) {
					existing = append(existing, item)
				}
			}
			if existing == nil {
				existing = []any{}
			}
			doc[field] = existing
		case increment:
			current, _ := doc[field].(float64)
			doc[field] = current + v.by
		default:
			normalized, err := normalize(v)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field, err)
			}
			doc[field] = normalized
		}
	}

	return json.Marshal(doc)
}

func containsValue(items []any, v any) bool {
	for _, item := range items {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

func decodeDoc(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// decodeList joins bodies into one JSON array and decodes it into dst.
func decodeList(bodies [][]byte, dst any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, body := range bodies {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(body)
	}
	buf.WriteByte(']')
	return decodeDoc(buf.Bytes(), dst)
}
