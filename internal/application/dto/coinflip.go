package dto

import "time"

type PlayCoinflipCommand struct {
	UserID    string
	StakeNano int64
	Choice    string
}

type PlayCoinflipOutput struct {
	Resource CoinflipResource
}

// CoinflipResource is one settled round. The stake is debited before the
// flip and a win credits twice the stake back, both inside one ledger
// transaction.
type CoinflipResource struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	StakeNano  int64     `json:"stake_nano"`
	Choice     string    `json:"choice"`
	Outcome    string    `json:"outcome"`
	Won        bool      `json:"won"`
	PayoutNano int64     `json:"payout_nano"`
	CreatedAt  time.Time `json:"created_at"`
}

type SettleCoinflipPersistenceCommand struct {
	ResourceID string
	UserID     string
	StakeNano  int64
	Choice     string
	Outcome    string
	Won        bool
	PayoutNano int64
	CreatedAt  time.Time
}
