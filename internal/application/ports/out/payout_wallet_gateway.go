package out

import (
	"time"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

// PayoutWalletGateway is the hot wallet the withdrawal worker pays from.
type PayoutWalletGateway interface {
	// Ready reports whether key material is loaded. A worker without a
	// ready wallet retries withdrawals instead of failing them.
	Ready() *apperrors.AppError
	WalletAddressRaw() string
	// BuildTransfer produces the signed serialized message for one native
	// transfer at the wallet's current seqno.
	BuildTransfer(seqno uint32, destinationRaw string, amountNano int64, validFor time.Duration, now time.Time) ([]byte, *apperrors.AppError)
}
