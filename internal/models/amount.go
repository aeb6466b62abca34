package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a money value that accepts both JSON numbers and numeric strings.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to decode amount: %w", err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*a = 0
			return nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number: %w", raw, err)
		}
		*a = Amount(value)

		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode amount: %w", err)
	}
	*a = Amount(value)

	return nil
}

// Ptr returns a pointer to the amount, handy for building payloads.
func (a Amount) Ptr() *Amount {
	return &a
}
