package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type DepositsController struct {
	claimUseCase        portsin.ClaimDepositUseCase
	verifyUseCase       portsin.VerifyDepositUseCase
	rejectUseCase       portsin.RejectDepositUseCase
	getUseCase          portsin.GetDepositUseCase
	listUseCase         portsin.ListDepositsUseCase
	manualCreditUseCase portsin.RecordManualDepositUseCase
	logger              *log.Logger
}

type claimDepositPayload struct {
	Asset         string `json:"asset"`
	AmountMinor   int64  `json:"amount_minor"`
	SenderAddress string `json:"sender_address,omitempty"`
}

type rejectDepositPayload struct {
	Reason string `json:"reason,omitempty"`
}

type manualDepositPayload struct {
	UserID      string `json:"user_id"`
	Asset       string `json:"asset"`
	AmountMinor int64  `json:"amount_minor"`
	Note        string `json:"note,omitempty"`
}

type verifyDepositResponse struct {
	Deposit  dto.DepositResource `json:"deposit"`
	Credited bool                `json:"credited"`
}

func NewDepositsController(
	claimUseCase portsin.ClaimDepositUseCase,
	verifyUseCase portsin.VerifyDepositUseCase,
	rejectUseCase portsin.RejectDepositUseCase,
	getUseCase portsin.GetDepositUseCase,
	listUseCase portsin.ListDepositsUseCase,
	manualCreditUseCase portsin.RecordManualDepositUseCase,
	logger *log.Logger,
) *DepositsController {
	return &DepositsController{
		claimUseCase:        claimUseCase,
		verifyUseCase:       verifyUseCase,
		rejectUseCase:       rejectUseCase,
		getUseCase:          getUseCase,
		listUseCase:         listUseCase,
		manualCreditUseCase: manualCreditUseCase,
		logger:              logger,
	}
}

func (c *DepositsController) ClaimDeposit(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	payload := claimDepositPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.claimUseCase.Execute(r.Context(), dto.ClaimDepositCommand{
		UserID:        userID,
		Asset:         payload.Asset,
		AmountMinor:   payload.AmountMinor,
		SenderAddress: payload.SenderAddress,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/deposits", appErr)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/deposits/"+output.Resource.ID)
	writeJSON(w, http.StatusCreated, output.Resource)
}

func (c *DepositsController) VerifyDeposit(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.verifyUseCase.Execute(r.Context(), dto.VerifyDepositCommand{
		ID:     r.PathValue("id"),
		UserID: userID,
		Now:    time.Now().UTC(),
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/deposits/{id}/verify", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, verifyDepositResponse{
		Deposit:  output.Resource,
		Credited: output.Credited,
	})
}

func (c *DepositsController) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	payload := rejectDepositPayload{}
	if r.ContentLength != 0 {
		if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
			writeAppError(w, appErr)
			return
		}
	}

	output, appErr := c.rejectUseCase.Execute(r.Context(), dto.RejectDepositCommand{
		ID:     r.PathValue("id"),
		UserID: userID,
		Reason: payload.Reason,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/deposits/{id}/reject", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output.Resource)
}

func (c *DepositsController) GetDeposit(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	resource, appErr := c.getUseCase.Execute(r.Context(), dto.GetDepositQuery{
		ID:     r.PathValue("id"),
		UserID: userID,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/deposits/{id}", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func (c *DepositsController) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	resources, appErr := c.listUseCase.Execute(r.Context(), dto.ListDepositsQuery{UserID: userID})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/deposits", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deposits": resources})
}

// RecordManualDeposit is the operator escape hatch for crediting a user
// without an on-chain match. It is not exposed to end users.
func (c *DepositsController) RecordManualDeposit(w http.ResponseWriter, r *http.Request) {
	payload := manualDepositPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.manualCreditUseCase.Execute(r.Context(), dto.RecordManualDepositCommand{
		UserID:      payload.UserID,
		Asset:       payload.Asset,
		AmountMinor: payload.AmountMinor,
		Note:        payload.Note,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/internal/deposits/manual", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusCreated, output.Resource)
}

func (c *DepositsController) logRequestError(method, path string, appErr *apperrors.AppError) {
	c.logger.Printf("request error path=%s method=%s code=%s message=%s", path, method, appErr.Code, appErr.Message)
}

func decodeJSONBody(body io.Reader, target any) *apperrors.AppError {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	return nil
}
