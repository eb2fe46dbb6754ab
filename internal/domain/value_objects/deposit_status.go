package valueobjects

type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusConfirmed DepositStatus = "CONFIRMED"
	DepositStatusRejected  DepositStatus = "REJECTED"
)

// IsTerminal reports whether a deposit can never change state again. A
// confirmed or rejected deposit is never re-evaluated against chain data.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusConfirmed || s == DepositStatusRejected
}

func (s DepositStatus) String() string {
	return string(s)
}
