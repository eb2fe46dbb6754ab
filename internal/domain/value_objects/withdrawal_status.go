package valueobjects

type WithdrawalStatus string

const (
	WithdrawalStatusCreated    WithdrawalStatus = "CREATED"
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalStatusConfirmed  WithdrawalStatus = "CONFIRMED"
	WithdrawalStatusFailed     WithdrawalStatus = "FAILED"
)

// CanTransitionTo encodes the withdrawal state machine:
// CREATED -> PROCESSING -> {CONFIRMED | FAILED | CREATED (retry/recovery)}.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusCreated:
		return next == WithdrawalStatusProcessing
	case WithdrawalStatusProcessing:
		return next == WithdrawalStatusConfirmed ||
			next == WithdrawalStatusFailed ||
			next == WithdrawalStatusCreated
	default:
		return false
	}
}

func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusConfirmed || s == WithdrawalStatusFailed
}

func (s WithdrawalStatus) String() string {
	return string(s)
}
