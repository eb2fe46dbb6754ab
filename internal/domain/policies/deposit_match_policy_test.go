//go:build !integration

package policies

import (
	"strings"
	"testing"

	"tonsettle/internal/domain/entities"
	valueobjects "tonsettle/internal/domain/value_objects"
)

var depositAddress = "0:" + strings.Repeat("aa", 32)

func candidate(hash string, amount int64, source, destination string) entities.ChainTransaction {
	return entities.ChainTransaction{
		Hash: hash,
		InMsg: &entities.InboundMessage{
			ValueNano:   amount,
			Source:      source,
			Destination: destination,
		},
	}
}

func TestMatchNativeDepositRequiresExactAmount(t *testing.T) {
	candidates := []entities.ChainTransaction{
		candidate("h1", 999, "", depositAddress),
		candidate("h2", 1000, "", depositAddress),
		candidate("h3", 1001, "", depositAddress),
	}

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", nil)
	if !found || hash != "h2" {
		t.Fatalf("expected h2, got %q found=%v", hash, found)
	}
}

func TestMatchNativeDepositIgnoresOtherDestinations(t *testing.T) {
	other := "0:" + strings.Repeat("bb", 32)
	candidates := []entities.ChainTransaction{
		candidate("h1", 1000, "", other),
	}

	if _, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", nil); found {
		t.Fatal("a transfer to another account must not match")
	}
}

func TestMatchNativeDepositAcceptsFriendlyDestination(t *testing.T) {
	friendly, appErr := valueobjects.FriendlyTONAddress(depositAddress, true, false)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	candidates := []entities.ChainTransaction{
		candidate("h1", 1000, "", friendly),
	}

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", nil)
	if !found || hash != "h1" {
		t.Fatalf("expected h1 via the friendly destination, got %q found=%v", hash, found)
	}
}

func TestMatchNativeDepositSkipsTransactionsWithoutInboundMessage(t *testing.T) {
	candidates := []entities.ChainTransaction{
		{Hash: "h1"},
		candidate("", 1000, "", depositAddress),
		candidate("h2", 1000, "", depositAddress),
	}

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", nil)
	if !found || hash != "h2" {
		t.Fatalf("expected h2, got %q found=%v", hash, found)
	}
}

func TestMatchNativeDepositSourceFilter(t *testing.T) {
	expected := "0:" + strings.Repeat("cc", 32)
	wrong := "0:" + strings.Repeat("dd", 32)
	candidates := []entities.ChainTransaction{
		candidate("h1", 1000, wrong, depositAddress),
		candidate("h2", 1000, expected, depositAddress),
	}

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, expected, nil)
	if !found || hash != "h2" {
		t.Fatalf("expected h2, got %q found=%v", hash, found)
	}
}

func TestMatchNativeDepositUnparseableCandidateSourcePasses(t *testing.T) {
	// Some system accounts surface in forms the codec does not parse;
	// the source check is skipped for them rather than failed.
	expected := "0:" + strings.Repeat("cc", 32)
	candidates := []entities.ChainTransaction{
		candidate("h1", 1000, "<system>", depositAddress),
	}

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, expected, nil)
	if !found || hash != "h1" {
		t.Fatalf("expected the unchecked source to match, got %q found=%v", hash, found)
	}
}

func TestMatchNativeDepositSkipsUsedHashes(t *testing.T) {
	candidates := []entities.ChainTransaction{
		candidate("h1", 1000, "", depositAddress),
		candidate("h2", 1000, "", depositAddress),
	}
	used := func(txHash string) bool { return txHash == "h1" }

	hash, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", used)
	if !found || hash != "h2" {
		t.Fatalf("expected h2, got %q found=%v", hash, found)
	}

	allUsed := func(string) bool { return true }
	if _, found := MatchNativeDeposit(candidates, depositAddress, 1000, "", allUsed); found {
		t.Fatal("no candidate may match when every hash is consumed")
	}
}

func TestMatchTokenDepositMatchesAmountAndSource(t *testing.T) {
	expected := "0:" + strings.Repeat("cc", 32)
	transfers := []entities.JettonTransfer{
		{TransactionHash: "j1", Amount: 999, Source: expected},
		{TransactionHash: "j2", Amount: 1000, Source: "0:" + strings.Repeat("dd", 32)},
		{TransactionHash: "j3", Amount: 1000, Source: expected},
	}

	hash, found := MatchTokenDeposit(transfers, 1000, expected, nil)
	if !found || hash != "j3" {
		t.Fatalf("expected j3, got %q found=%v", hash, found)
	}
}

func TestMatchTokenDepositSkipsUsedAndEmptyHashes(t *testing.T) {
	transfers := []entities.JettonTransfer{
		{TransactionHash: "", Amount: 1000},
		{TransactionHash: "j1", Amount: 1000},
		{TransactionHash: "j2", Amount: 1000},
	}
	used := func(txHash string) bool { return txHash == "j1" }

	hash, found := MatchTokenDeposit(transfers, 1000, "", used)
	if !found || hash != "j2" {
		t.Fatalf("expected j2, got %q found=%v", hash, found)
	}
}
