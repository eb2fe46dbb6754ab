package dto

import "time"

type ClaimDepositCommand struct {
	UserID        string
	Asset         string
	AmountMinor   int64
	SenderAddress string
}

type ClaimDepositOutput struct {
	Resource DepositResource
}

type VerifyDepositCommand struct {
	ID     string
	UserID string
	Now    time.Time
}

// VerifyDepositOutput reports whether this verification pass credited the
// deposit. A replayed verification of an already confirmed deposit returns
// the resource with Credited false.
type VerifyDepositOutput struct {
	Resource DepositResource
	Credited bool
}

type RejectDepositCommand struct {
	ID     string
	UserID string
	Reason string
}

type RejectDepositOutput struct {
	Resource DepositResource
}

type GetDepositQuery struct {
	ID     string
	UserID string
}

type ListDepositsQuery struct {
	UserID string
}

// RecordManualDepositCommand credits a user directly, bypassing chain
// verification. Operator tooling only.
type RecordManualDepositCommand struct {
	UserID      string
	Asset       string
	AmountMinor int64
	Note        string
}

type RecordManualDepositOutput struct {
	Resource DepositResource
}

type DepositResource struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Asset         string    `json:"asset"`
	AmountMinor   int64     `json:"amount_minor"`
	SenderAddress *string   `json:"sender_address,omitempty"`
	Status        string    `json:"status"`
	TxHash        *string   `json:"tx_hash,omitempty"`
	RejectReason  *string   `json:"reject_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// ConfirmedAt is set exactly once, when the credit lands.
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

type CreateDepositPersistenceCommand struct {
	ResourceID    string
	UserID        string
	Asset         string
	AmountMinor   int64
	SenderAddress *string
	Status        string
	CreatedAt     time.Time
}
