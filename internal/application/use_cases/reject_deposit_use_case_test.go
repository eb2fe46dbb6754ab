//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"tonsettle/internal/application/dto"
	valueobjects "tonsettle/internal/domain/value_objects"
)

func TestRejectDepositMarksPendingClaimRejected(t *testing.T) {
	repo := &fakeDepositRepository{
		deposits: map[string]dto.DepositResource{
			"dep_1": pendingTONDeposit("dep_1", "user_1", 500),
		},
	}
	useCase := NewRejectDepositUseCase(repo, fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)})

	output, appErr := useCase.Execute(context.Background(), dto.RejectDepositCommand{
		ID:     "dep_1",
		UserID: "user_1",
		Reason: "claimed by mistake",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Resource.Status != valueobjects.DepositStatusRejected.String() {
		t.Fatalf("expected REJECTED, got %s", output.Resource.Status)
	}
	if repo.rejected["dep_1"] != "claimed by mistake" {
		t.Fatalf("expected the reason recorded, got %+v", repo.rejected)
	}
}

func TestRejectDepositRefusesTerminalStates(t *testing.T) {
	confirmed := pendingTONDeposit("dep_1", "user_1", 500)
	confirmed.Status = valueobjects.DepositStatusConfirmed.String()
	repo := &fakeDepositRepository{
		deposits: map[string]dto.DepositResource{"dep_1": confirmed},
	}
	useCase := NewRejectDepositUseCase(repo, nil)

	_, appErr := useCase.Execute(context.Background(), dto.RejectDepositCommand{ID: "dep_1", UserID: "user_1"})
	if appErr == nil || appErr.Code != "deposit_already_settled" {
		t.Fatalf("expected deposit_already_settled, got %+v", appErr)
	}
}

func TestRecordManualDepositCreditsConfirmedClaim(t *testing.T) {
	repo := &fakeDepositRepository{}
	useCase := NewRecordManualDepositUseCase(repo, fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)})

	output, appErr := useCase.Execute(context.Background(), dto.RecordManualDepositCommand{
		UserID:      "user_1",
		Asset:       "TON",
		AmountMinor: 750,
		Note:        "support adjustment",
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(repo.manualCredits) != 1 {
		t.Fatalf("expected one manual credit, got %d", len(repo.manualCredits))
	}
	if repo.manualCredits[0].Status != valueobjects.DepositStatusConfirmed.String() {
		t.Fatalf("expected CONFIRMED, got %s", repo.manualCredits[0].Status)
	}
	if output.Resource.AmountMinor != 750 {
		t.Fatalf("expected amount 750, got %d", output.Resource.AmountMinor)
	}
}
