package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExtractString reads a text field from a bitable record.
// Text cells come back either as a plain string or as a list of rich-text segments.
func ExtractString(fields map[string]interface{}, field string) string {
	switch v := fields[field].(type) {
	case string:
		return v
	case []interface{}:
		var sb strings.Builder
		for _, seg := range v {
			if m, ok := seg.(map[string]interface{}); ok {
				if text, ok := m["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// ExtractFloat reads a number field, returning fallback when the cell is empty
func ExtractFloat(fields map[string]interface{}, field string, fallback float64) float64 {
	switch v := fields[field].(type) {
	case float64:
		if v != 0 {
			return v
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f != 0 {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && f != 0 {
			return f
		}
	}
	return fallback
}

// ExtractInt is ExtractFloat truncated to an integer
func ExtractInt(fields map[string]interface{}, field string, fallback int64) int64 {
	return int64(ExtractFloat(fields, field, float64(fallback)))
}

// DecodeJSONField unmarshals a text cell that holds serialized JSON.
// An empty cell leaves out untouched.
func DecodeJSONField(fields map[string]interface{}, field string, out interface{}) error {
	raw := ExtractString(fields, field)
	if raw == "" {
		return nil
	}
	return DecodeJSON(strings.NewReader(raw), out)
}

// DecodeJSON decodes exactly one JSON value from r. Numbers in untyped
// positions stay json.Number so large ids keep every digit.
func DecodeJSON(r io.Reader, out interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// EncodeJSONField serializes v for storage in a text cell
func EncodeJSONField(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
