package policies

import (
	"strings"

	"tonsettle/internal/domain/entities"
	valueobjects "tonsettle/internal/domain/value_objects"
)

// TxHashUsedFunc reports whether a chain transaction hash is already recorded
// on some deposit. It is the sole duplicate-credit guard: a hash that matches
// two pending deposits may confirm at most one of them.
type TxHashUsedFunc func(txHash string) bool

// MatchNativeDeposit scans candidates most-recent-first for an inbound
// transfer to depositAddressRaw of exactly amountNano nanotons and returns
// the first candidate whose hash is still unused.
//
// The expected source, when supplied, must also match, but a source that
// fails to normalize is treated as "not checked" rather than a mismatch,
// since the read API reports some system sources in forms the codec does not
// cover. Candidate destinations that fail to normalize are skipped outright.
func MatchNativeDeposit(
	candidates []entities.ChainTransaction,
	depositAddressRaw string,
	amountNano int64,
	expectedSource string,
	used TxHashUsedFunc,
) (string, bool) {
	expectedSourceRaw := normalizeOptional(expectedSource)

	for _, candidate := range candidates {
		if candidate.InMsg == nil || candidate.Hash == "" {
			continue
		}

		destinationRaw, appErr := valueobjects.NormalizeTONAddress(candidate.InMsg.Destination)
		if appErr != nil {
			continue
		}
		if destinationRaw != depositAddressRaw {
			continue
		}
		if candidate.InMsg.ValueNano != amountNano {
			continue
		}
		if !sourceMatches(expectedSourceRaw, candidate.InMsg.Source) {
			continue
		}
		if used != nil && used(candidate.Hash) {
			continue
		}

		return candidate.Hash, true
	}

	return "", false
}

// MatchTokenDeposit applies the same amount/source/uniqueness rules to jetton
// transfer records. The jetton feed reports canonical destinations already
// scoped to the deposit wallet, so only amount and source are compared.
func MatchTokenDeposit(
	transfers []entities.JettonTransfer,
	amount int64,
	expectedSource string,
	used TxHashUsedFunc,
) (string, bool) {
	expectedSourceRaw := normalizeOptional(expectedSource)

	for _, transfer := range transfers {
		if transfer.TransactionHash == "" {
			continue
		}
		if transfer.Amount != amount {
			continue
		}
		if !sourceMatches(expectedSourceRaw, transfer.Source) {
			continue
		}
		if used != nil && used(transfer.TransactionHash) {
			continue
		}

		return transfer.TransactionHash, true
	}

	return "", false
}

func normalizeOptional(address string) string {
	if strings.TrimSpace(address) == "" {
		return ""
	}

	raw, appErr := valueobjects.NormalizeTONAddress(address)
	if appErr != nil {
		// Unparseable expectation means the check is skipped, not failed.
		return ""
	}
	return raw
}

func sourceMatches(expectedSourceRaw, candidateSource string) bool {
	if expectedSourceRaw == "" || strings.TrimSpace(candidateSource) == "" {
		return true
	}

	candidateRaw, appErr := valueobjects.NormalizeTONAddress(candidateSource)
	if appErr != nil {
		return true
	}

	return candidateRaw == expectedSourceRaw
}
