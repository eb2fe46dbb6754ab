package dto

import "time"

type CreateWithdrawalCommand struct {
	UserID             string
	Asset              string
	AmountMinor        int64
	DestinationAddress string
}

type CreateWithdrawalOutput struct {
	Resource WithdrawalResource
}

type GetWithdrawalQuery struct {
	ID     string
	UserID string
}

type ListWithdrawalsQuery struct {
	UserID string
}

type WithdrawalResource struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Asset              string    `json:"asset"`
	AmountMinor        int64     `json:"amount_minor"`
	DestinationAddress string    `json:"destination_address"`
	Status             string    `json:"status"`
	Attempts           int       `json:"attempts"`
	MaxAttempts        int       `json:"max_attempts"`
	TxHash             *string   `json:"tx_hash,omitempty"`
	LastError          *string   `json:"last_error,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	// ProcessedAt marks the terminal transition (CONFIRMED or FAILED);
	// retries and recovery leave it empty.
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type CreateWithdrawalPersistenceCommand struct {
	ResourceID         string
	UserID             string
	Asset              string
	AmountMinor        int64
	DestinationAddress string
	Status             string
	MaxAttempts        int
	CreatedAt          time.Time
}

// ClaimedWithdrawal is the row shape the payout worker operates on after a
// claim pass has moved it to PROCESSING and counted the attempt.
type ClaimedWithdrawal struct {
	ID                 string
	UserID             string
	Asset              string
	AmountMinor        int64
	DestinationAddress string
	Attempts           int
	MaxAttempts        int
}

type ProcessWithdrawalsCommand struct {
	Now              time.Time
	BatchSize        int
	TransferValidFor time.Duration
}

type ProcessWithdrawalsOutput struct {
	Claimed   int
	Confirmed int
	Retried   int
	Refunded  int
	Errors    int
}

type RecoverStuckWithdrawalsCommand struct {
	Now         time.Time
	StuckCutoff time.Duration
}

type RecoverStuckWithdrawalsOutput struct {
	Recovered int
}
