package controllers

import (
	"log"
	"net/http"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type WithdrawalsController struct {
	createUseCase portsin.CreateWithdrawalUseCase
	getUseCase    portsin.GetWithdrawalUseCase
	listUseCase   portsin.ListWithdrawalsUseCase
	logger        *log.Logger
}

type createWithdrawalPayload struct {
	Asset              string `json:"asset"`
	AmountMinor        int64  `json:"amount_minor"`
	DestinationAddress string `json:"destination_address"`
}

func NewWithdrawalsController(
	createUseCase portsin.CreateWithdrawalUseCase,
	getUseCase portsin.GetWithdrawalUseCase,
	listUseCase portsin.ListWithdrawalsUseCase,
	logger *log.Logger,
) *WithdrawalsController {
	return &WithdrawalsController{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		logger:        logger,
	}
}

func (c *WithdrawalsController) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	payload := createWithdrawalPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.createUseCase.Execute(r.Context(), dto.CreateWithdrawalCommand{
		UserID:             userID,
		Asset:              payload.Asset,
		AmountMinor:        payload.AmountMinor,
		DestinationAddress: payload.DestinationAddress,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/withdrawals", appErr)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/withdrawals/"+output.Resource.ID)
	writeJSON(w, http.StatusCreated, output.Resource)
}

func (c *WithdrawalsController) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	resource, appErr := c.getUseCase.Execute(r.Context(), dto.GetWithdrawalQuery{
		ID:     r.PathValue("id"),
		UserID: userID,
	})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/withdrawals/{id}", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func (c *WithdrawalsController) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	resources, appErr := c.listUseCase.Execute(r.Context(), dto.ListWithdrawalsQuery{UserID: userID})
	if appErr != nil {
		c.logRequestError(r.Method, "/v1/withdrawals", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"withdrawals": resources})
}

func (c *WithdrawalsController) logRequestError(method, path string, appErr *apperrors.AppError) {
	c.logger.Printf("request error path=%s method=%s code=%s message=%s", path, method, appErr.Code, appErr.Message)
}
