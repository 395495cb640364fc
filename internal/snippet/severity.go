package snippet

import "fmt"

// Severity defines the importance of an annotation.
type Severity uint8

const (
	// SevWarning is for warning annotations.
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity converts a textual severity into a Severity value.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (expected error|warning)", s)
	}
}
