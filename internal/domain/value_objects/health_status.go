package valueobjects

type HealthStatus struct {
	value string
}

func NewHealthyStatus() HealthStatus {
	return HealthStatus{value: "ok"}
}

func (s HealthStatus) String() string {
	return s.value
}
