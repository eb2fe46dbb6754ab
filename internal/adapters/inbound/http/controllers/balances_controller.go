package controllers

import (
	"log"
	"net/http"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
)

type BalancesController struct {
	getUseCase portsin.GetBalanceUseCase
	logger     *log.Logger
}

func NewBalancesController(getUseCase portsin.GetBalanceUseCase, logger *log.Logger) *BalancesController {
	return &BalancesController{
		getUseCase: getUseCase,
		logger:     logger,
	}
}

func (c *BalancesController) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.getUseCase.Execute(r.Context(), dto.GetBalanceQuery{UserID: userID})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/balance method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output.Resource)
}
