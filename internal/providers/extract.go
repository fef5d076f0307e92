package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var ErrUnparseableBody = errors.New("response body is not valid JSON")

// extractor looks for the result array in a decoded body. It reports false
// when its shape does not apply, so the next one gets a try.
type extractor func(body []byte) ([]json.RawMessage, bool)

// extractRecords runs rootArray, then knownKeys, then firstArrayProperty.
// A body without any array yields no records and no error.
func extractRecords(body []byte, keys []string) ([]Record, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, ErrUnparseableBody
	}

	chain := []extractor{rootArray, knownKeys(keys), firstArrayProperty}
	for _, extract := range chain {
		items, ok := extract(body)
		if !ok {
			continue
		}
		return toRecords(items), nil
	}
	return []Record{}, nil
}

func rootArray(body []byte) ([]json.RawMessage, bool) {
	if len(body) == 0 || body[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, false
	}
	return items, true
}

func knownKeys(keys []string) extractor {
	return func(body []byte) ([]json.RawMessage, bool) {
		if len(body) == 0 || body[0] != '{' {
			return nil, false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, false
		}
		for _, k := range keys {
			if items, ok := asArray(obj[k]); ok {
				return items, true
			}
		}
		return nil, false
	}
}

// firstArrayProperty scans the top-level object in document order and
// returns the first array-valued property.
func firstArrayProperty(body []byte) ([]json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			if err == io.EOF {
				break
			}
			return nil, false
		}
		if items, ok := asArray(value); ok {
			return items, true
		}
	}
	return nil, false
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// toRecords decodes each element. Scalars and nested arrays are wrapped as
// {"value": v} so every record is an object.
func toRecords(items []json.RawMessage) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			records = append(records, Record(obj))
			continue
		}
		records = append(records, Record{"value": v})
	}
	return records
}
