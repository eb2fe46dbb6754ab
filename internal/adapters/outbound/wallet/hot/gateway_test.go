//go:build !integration

package hot

import (
	"strings"
	"testing"
	"time"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon about"

func TestUnconfiguredGatewayIsNotReady(t *testing.T) {
	gateway, appErr := NewGateway("", "")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	readyErr := gateway.Ready()
	if readyErr == nil || readyErr.Code != "payout_wallet_not_ready" {
		t.Fatalf("expected payout_wallet_not_ready, got %+v", readyErr)
	}
	if readyErr.Type != apperrors.TypeUnavailable {
		t.Fatalf("expected an unavailable error, got %s", readyErr.Type)
	}
	if gateway.WalletAddressRaw() != "" {
		t.Fatalf("expected an empty address, got %s", gateway.WalletAddressRaw())
	}

	_, buildErr := gateway.BuildTransfer(0, "0:"+strings.Repeat("ab", 32), 1, time.Minute, time.Now())
	if buildErr == nil || buildErr.Code != "payout_wallet_not_ready" {
		t.Fatalf("expected payout_wallet_not_ready from BuildTransfer, got %+v", buildErr)
	}
}

func TestConfiguredGatewayDerivesAddress(t *testing.T) {
	gateway, appErr := NewGateway(testMnemonic, "")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if readyErr := gateway.Ready(); readyErr != nil {
		t.Fatalf("expected a ready wallet, got %+v", readyErr)
	}

	address := gateway.WalletAddressRaw()
	if !strings.HasPrefix(address, "0:") || len(address) != 66 {
		t.Fatalf("expected a basechain raw address, got %q", address)
	}
}

func TestPinnedAddressOverridesDerivation(t *testing.T) {
	pinned := "0:" + strings.Repeat("11", 32)
	gateway, appErr := NewGateway(testMnemonic, pinned)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if gateway.WalletAddressRaw() != pinned {
		t.Fatalf("expected the pinned address, got %s", gateway.WalletAddressRaw())
	}
}

func TestBadMnemonicIsRejected(t *testing.T) {
	_, appErr := NewGateway("too short", "")
	if appErr == nil || appErr.Code != "payout_wallet_key_invalid" {
		t.Fatalf("expected payout_wallet_key_invalid, got %+v", appErr)
	}
	if appErr.Type != apperrors.TypeValidation {
		t.Fatalf("expected a validation error, got %s", appErr.Type)
	}
}

func TestBuildTransferRejectsBadDestination(t *testing.T) {
	gateway, appErr := NewGateway(testMnemonic, "")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	_, buildErr := gateway.BuildTransfer(3, "not-an-address", 1_000_000_000, time.Minute, time.Now())
	if buildErr == nil || buildErr.Code != "transfer_build_failed" {
		t.Fatalf("expected transfer_build_failed, got %+v", buildErr)
	}
	if buildErr.Type != apperrors.TypeValidation {
		t.Fatalf("expected a validation error, got %s", buildErr.Type)
	}
}

func TestBuildTransferProducesSerializedBag(t *testing.T) {
	gateway, appErr := NewGateway(testMnemonic, "")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	boc, buildErr := gateway.BuildTransfer(
		7,
		"0:"+strings.Repeat("cd", 32),
		500_000_000,
		5*time.Minute,
		time.Unix(1_700_000_000, 0),
	)
	if buildErr != nil {
		t.Fatalf("expected no error, got %+v", buildErr)
	}
	if len(boc) == 0 {
		t.Fatal("expected serialized bytes")
	}
	if boc[0] != 0xb5 || boc[1] != 0xee || boc[2] != 0x9c || boc[3] != 0x72 {
		t.Fatalf("expected the serialization magic, got % x", boc[:4])
	}
}
