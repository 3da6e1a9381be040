package auction

type Status string

const (
	// StatusInactive overrides the time-based states: the admin kill-switch.
	StatusInactive Status = "inactive"
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInactive, StatusUpcoming, StatusActive, StatusEnded:
		return true
	default:
		return false
	}
}
