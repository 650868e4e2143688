package domain

// Status is the lifecycle state shared by client and credential records.
// The numeric values are the persisted representation.
type Status int16

const (
	StatusActive   Status = 1
	StatusDisabled Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDisabled
}

// ParseStatus maps the wire representation back to a Status. The boolean is
// false for anything but "active" and "disabled".
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "active":
		return StatusActive, true
	case "disabled":
		return StatusDisabled, true
	default:
		return 0, false
	}
}
