package dto

import "time"

type GetBalanceQuery struct {
	UserID string
}

// BalanceResource carries both asset columns of a user's ledger row. TON is
// in nanotons, USDT in micro units.
type BalanceResource struct {
	UserID    string    `json:"user_id"`
	TONNano   int64     `json:"ton_nano"`
	USDTMinor int64     `json:"usdt_minor"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GetBalanceOutput struct {
	Resource BalanceResource
}
