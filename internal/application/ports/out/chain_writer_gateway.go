package out

import (
	"context"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

// ChainWriterGateway submits externally signed messages to the chain.
type ChainWriterGateway interface {
	// SendBOC broadcasts a serialized message and returns the hash the
	// endpoint assigned to it.
	SendBOC(ctx context.Context, boc []byte) (string, *apperrors.AppError)
}
