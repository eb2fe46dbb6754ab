package controllers

import (
	"log"
	"net/http"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
)

type CoinflipController struct {
	playUseCase portsin.PlayCoinflipUseCase
	logger      *log.Logger
}

type playCoinflipPayload struct {
	StakeNano int64  `json:"stake_nano"`
	Choice    string `json:"choice"`
}

func NewCoinflipController(playUseCase portsin.PlayCoinflipUseCase, logger *log.Logger) *CoinflipController {
	return &CoinflipController{
		playUseCase: playUseCase,
		logger:      logger,
	}
}

func (c *CoinflipController) PlayCoinflip(w http.ResponseWriter, r *http.Request) {
	userID, appErr := principalUserID(r)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	payload := playCoinflipPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.playUseCase.Execute(r.Context(), dto.PlayCoinflipCommand{
		UserID:    userID,
		StakeNano: payload.StakeNano,
		Choice:    payload.Choice,
	})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/coinflip/plays method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusCreated, output.Resource)
}
