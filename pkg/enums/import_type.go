package enums

import "fmt"

// ImportType distinguishes single-product imports from bulk batches.
type ImportType string

const (
	ImportTypeSingle ImportType = "single"
	ImportTypeBulk   ImportType = "bulk"
)

var validImportTypes = []ImportType{
	ImportTypeSingle,
	ImportTypeBulk,
}

// String implements fmt.Stringer.
func (t ImportType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ImportType.
func (t ImportType) IsValid() bool {
	for _, candidate := range validImportTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseImportType converts raw input into an ImportType.
func ParseImportType(value string) (ImportType, error) {
	for _, candidate := range validImportTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid import type %q", value)
}
