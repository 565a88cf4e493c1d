package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// DimensionMap stores a document's dimension values as a JSON column.
// It implements driver.Valuer and sql.Scanner so it works with both
// SQLite JSON and PostgreSQL JSONB columns without a dialect-specific type.
type DimensionMap map[string]string

// Value implements driver.Valuer for database writes.
func (m DimensionMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database reads.
func (m *DimensionMap) Scan(value interface{}) error {
	if value == nil {
		*m = DimensionMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal dimension map: unsupported type")
	}

	if len(bytes) == 0 {
		*m = DimensionMap{}
		return nil
	}

	var decoded map[string]string
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return fmt.Errorf("invalid dimension map in database: %w", err)
	}
	if decoded == nil {
		decoded = map[string]string{}
	}
	*m = decoded
	return nil
}

// Clone returns a copy the caller can mutate without affecting the
// original.
func (m DimensionMap) Clone() DimensionMap {
	out := make(DimensionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
