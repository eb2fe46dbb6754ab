package router

import (
	"net/http"

	"tonsettle/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController      *controllers.HealthController
	SwaggerController     *controllers.SwaggerController
	BalancesController    *controllers.BalancesController
	DepositsController    *controllers.DepositsController
	WithdrawalsController *controllers.WithdrawalsController
	CoinflipController    *controllers.CoinflipController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("GET /v1/balance", deps.BalancesController.GetBalance)
	mux.HandleFunc("POST /v1/deposits", deps.DepositsController.ClaimDeposit)
	mux.HandleFunc("GET /v1/deposits", deps.DepositsController.ListDeposits)
	mux.HandleFunc("GET /v1/deposits/{id}", deps.DepositsController.GetDeposit)
	mux.HandleFunc("POST /v1/deposits/{id}/verify", deps.DepositsController.VerifyDeposit)
	mux.HandleFunc("POST /v1/deposits/{id}/reject", deps.DepositsController.RejectDeposit)
	mux.HandleFunc("POST /internal/deposits/manual", deps.DepositsController.RecordManualDeposit)
	mux.HandleFunc("POST /v1/withdrawals", deps.WithdrawalsController.CreateWithdrawal)
	mux.HandleFunc("GET /v1/withdrawals", deps.WithdrawalsController.ListWithdrawals)
	mux.HandleFunc("GET /v1/withdrawals/{id}", deps.WithdrawalsController.GetWithdrawal)
	mux.HandleFunc("POST /v1/coinflip/plays", deps.CoinflipController.PlayCoinflip)

	return mux
}
