package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotList   = errors.New("JSON input must be an array")
	ErrNotRecord = errors.New("JSON array item must be an object")
)

// Record is one decoded input element. Raw is the element re-encoded as
// compact JSON with its original key order.
type Record struct {
	Index  int
	Fields map[string]interface{}
	Raw    string
}

// ValidateInput decodes raw as a JSON array of objects. Numbers are kept as
// json.Number so that nothing is lost before they are rendered as text.
func ValidateInput(raw []byte) ([]Record, error) {
	if !json.Valid(raw) {
		var probe interface{}
		err := json.Unmarshal(raw, &probe)
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotList
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	records := make([]Record, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: item at index %d", ErrNotRecord, i)
		}

		dec := json.NewDecoder(bytes.NewReader(elem))
		dec.UseNumber()
		fields := make(map[string]interface{})
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, elem); err != nil {
			return nil, fmt.Errorf("failed to compact item at index %d: %w", i, err)
		}

		records = append(records, Record{Index: i, Fields: fields, Raw: compact.String()})
	}

	return records, nil
}

// Lookup follows a dotted path through nested objects. A present key holding
// JSON null is reported as absent.
func (r Record) Lookup(path string) (interface{}, bool) {
	var current interface{} = r.Fields
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}
