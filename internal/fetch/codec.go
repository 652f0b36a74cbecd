package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/keynav/internal/key"
)

// Validator checks raw payloads before decoding. *schema.Validator satisfies it.
type Validator interface {
	ValidateDataset(data []byte) error
	ValidateRecords(data []byte) error
}

// DecodeDataset decodes a dataset payload: a JSON array of leads or an
// object with a "leads" array.
func DecodeDataset(data []byte) ([]key.Lead, error) {
	if isObject(data) {
		var wrapped struct {
			Leads []key.Lead `json:"leads"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
		return nonNil(wrapped.Leads), nil
	}

	var leads []key.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return nonNil(leads), nil
}

// DecodeRecords decodes a record-filter payload: a JSON array of ints or an
// object with a "records" array. Order is preserved.
func DecodeRecords(data []byte) ([]int, error) {
	if isObject(data) {
		var wrapped struct {
			Records []int `json:"records"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return nonNil(wrapped.Records), nil
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return nonNil(ids), nil
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
