package table

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON returns the indented JSON form of the table.
func (t *Table) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("table: encode json: %w", err)
	}
	return data, nil
}

// WriteJSON writes the JSON form of the table to w.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("table: encode json: %w", err)
	}
	return nil
}

// DecodeJSON parses and validates a JSON table.
func DecodeJSON(data []byte) (*Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("table: decode json: %w", err)
	}
	return finish(&t)
}

// ReadJSON reads and validates a JSON table from r.
func ReadJSON(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("table: decode json: %w", err)
	}
	return finish(&t)
}

func finish(t *Table) (*Table, error) {
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
