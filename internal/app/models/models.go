package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Placeholder is rendered for display fields the backend left empty.
const Placeholder = "—"

// ID is an opaque identifier. Backends send either numbers or strings
// (UUIDs), so both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int64 returns the numeric value of id, or 0 for non numeric identifiers.
func (id ID) Int64() int64 {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Display returns s, or the placeholder when s is blank.
func Display(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// FullName joins first and last name, falling back to the placeholder.
func FullName(first, last string) string {
	return Display(strings.TrimSpace(first + " " + last))
}
