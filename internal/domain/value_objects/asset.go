package valueobjects

import (
	"strings"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

// Asset is the closed set of settled assets. TON amounts are nanotons,
// USDT amounts are micro-USDT; both are integer minor units end to end.
type Asset string

const (
	AssetTON  Asset = "TON"
	AssetUSDT Asset = "USDT"
)

func ParseAsset(raw string) (Asset, *apperrors.AppError) {
	switch Asset(strings.ToUpper(strings.TrimSpace(raw))) {
	case AssetTON:
		return AssetTON, nil
	case AssetUSDT:
		return AssetUSDT, nil
	default:
		return "", apperrors.NewValidation(
			"asset_invalid",
			"asset must be TON or USDT",
			map[string]any{"asset": raw},
		)
	}
}

func (a Asset) String() string {
	return string(a)
}
