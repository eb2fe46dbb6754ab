//go:build !integration

package controllers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

func TestCoinflipControllerPlayCreated(t *testing.T) {
	controller := NewCoinflipController(stubPlayCoinflipUseCase{}, log.New(io.Discard, "", 0))

	body := bytes.NewBufferString(`{"stake_nano":1000000000,"choice":"heads"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/coinflip/plays", body)
	req.Header.Set(headerUserID, "user_1")
	rec := httptest.NewRecorder()

	controller.PlayCoinflip(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"outcome":"heads"`)) {
		t.Fatalf("expected an outcome in payload, got %s", rec.Body.String())
	}
}

func TestCoinflipControllerPlayRequiresUserHeader(t *testing.T) {
	controller := NewCoinflipController(stubPlayCoinflipUseCase{}, log.New(io.Discard, "", 0))

	body := bytes.NewBufferString(`{"stake_nano":1000000000,"choice":"heads"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/coinflip/plays", body)
	rec := httptest.NewRecorder()

	controller.PlayCoinflip(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCoinflipControllerPlayInvalidJSON(t *testing.T) {
	controller := NewCoinflipController(stubPlayCoinflipUseCase{}, log.New(io.Discard, "", 0))

	req := httptest.NewRequest(http.MethodPost, "/v1/coinflip/plays", bytes.NewBufferString("{"))
	req.Header.Set(headerUserID, "user_1")
	rec := httptest.NewRecorder()

	controller.PlayCoinflip(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

type stubPlayCoinflipUseCase struct{}

func (stubPlayCoinflipUseCase) Execute(_ context.Context, command dto.PlayCoinflipCommand) (dto.PlayCoinflipOutput, *apperrors.AppError) {
	return dto.PlayCoinflipOutput{
		Resource: dto.CoinflipResource{
			ID:         "flip_test",
			UserID:     command.UserID,
			StakeNano:  command.StakeNano,
			Choice:     command.Choice,
			Outcome:    "heads",
			Won:        command.Choice == "heads",
			PayoutNano: 2 * command.StakeNano,
			CreatedAt:  time.Unix(0, 0).UTC(),
		},
	}, nil
}
