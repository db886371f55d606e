package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Response envelopes differ per route:
//
//	{"statusCode": 200, "message": "...", "data": [...]}
//	{"success": true, "data": {"classes": [...]}}
//	{"users": [...]}
//	{"data": {"items": [...], "pagination": {...}}}
//
// Wrappers pass the resource key they expect; decoding looks for it at the
// top level, then under data, then takes data itself.

func lookup(body []byte, key string) (json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	if trimmed[0] == '[' {
		return trimmed, true, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrUnexpected, err)
	}

	if key != "" {
		if raw, ok := top[key]; ok && !isNull(raw) {
			return raw, true, nil
		}
	}

	data, ok := top["data"]
	if !ok || isNull(data) {
		if key == "" {
			return trimmed, true, nil
		}
		return nil, false, nil
	}

	var inner map[string]json.RawMessage
	if json.Unmarshal(data, &inner) == nil {
		if key != "" {
			if raw, ok := inner[key]; ok && !isNull(raw) {
				return raw, true, nil
			}
		}
		if raw, ok := inner["items"]; ok && !isNull(raw) {
			return raw, true, nil
		}
	}
	return data, true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeList unwraps a collection, returning an empty (non nil) slice when
// the envelope carries none.
func decodeList[T any](body []byte, key string) ([]T, error) {
	raw, ok, err := lookup(body, key)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if !ok {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		// Single objects where a list was expected are not an error
		// worth failing a page over.
		var single map[string]json.RawMessage
		if json.Unmarshal(raw, &single) == nil {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnexpected, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeItem unwraps a single resource; a missing payload yields the zero
// value.
func decodeItem[T any](body []byte, key string) (T, error) {
	var item T
	raw, ok, err := lookup(body, key)
	if err != nil || !ok {
		return item, err
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("%w: %v", apperrors.ErrUnexpected, err)
	}
	return item, nil
}
