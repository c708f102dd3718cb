package table

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// EncodeYAML returns the YAML form of the table. Field names match the JSON
// form.
func (t *Table) EncodeYAML() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("table: encode yaml: %w", err)
	}
	return data, nil
}

// DecodeYAML parses and validates a YAML table.
func DecodeYAML(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("table: decode yaml: %w", err)
	}
	return finish(&t)
}
