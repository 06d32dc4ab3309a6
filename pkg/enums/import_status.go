package enums

import "fmt"

// ImportStatus tracks the lifecycle state of one import attempt.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

var validImportStatuses = []ImportStatus{
	ImportStatusPending,
	ImportStatusProcessing,
	ImportStatusCompleted,
	ImportStatusFailed,
}

// String implements fmt.Stringer.
func (s ImportStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ImportStatus.
func (s ImportStatus) IsValid() bool {
	for _, candidate := range validImportStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseImportStatus converts raw input into an ImportStatus.
func ParseImportStatus(value string) (ImportStatus, error) {
	for _, candidate := range validImportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid import status %q", value)
}
