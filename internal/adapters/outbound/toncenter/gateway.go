package toncenter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	portsout "tonsettle/internal/application/ports/out"
	"tonsettle/internal/domain/entities"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 1024

	// The seqno get-method aborts with this exit code on an account that
	// has no deployed contract yet.
	exitCodeNotDeployed = -13
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Gateway talks to a toncenter-compatible HTTP API. It serves both chain
// ports: reads (transactions, jetton transfers, seqno) and writes (boc
// broadcast).
type Gateway struct {
	baseURL string
	apiKey  string
	client  *nethttp.Client
}

var (
	_ portsout.ChainReaderGateway = (*Gateway)(nil)
	_ portsout.ChainWriterGateway = (*Gateway)(nil)
)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client: &nethttp.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the standard toncenter response wrapper.
type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Code   int             `json:"code"`
}

type transactionRecord struct {
	TransactionID struct {
		Hash string `json:"hash"`
		LT   string `json:"lt"`
	} `json:"transaction_id"`
	UTime int64 `json:"utime"`
	InMsg *struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Value       string `json:"value"`
	} `json:"in_msg"`
}

type jettonTransferRecord struct {
	TransactionHash string `json:"transaction_hash"`
	Amount          string `json:"amount"`
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	UTime           int64  `json:"utime"`
}

func (g *Gateway) GetRecentTransactions(ctx context.Context, addressRaw string, limit int) ([]entities.ChainTransaction, *apperrors.AppError) {
	query := url.Values{}
	query.Set("address", addressRaw)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("archival", "true")

	var records []transactionRecord
	if appErr := g.get(ctx, "/api/v2/getTransactions", query, &records); appErr != nil {
		return nil, appErr
	}

	transactions := make([]entities.ChainTransaction, 0, len(records))
	for _, record := range records {
		tx := entities.ChainTransaction{
			Hash:  record.TransactionID.Hash,
			UTime: record.UTime,
		}
		if lt, err := strconv.ParseInt(record.TransactionID.LT, 10, 64); err == nil {
			tx.LT = lt
		}
		if record.InMsg != nil {
			value, err := strconv.ParseInt(record.InMsg.Value, 10, 64)
			if err != nil {
				// A value that does not parse cannot be amount-matched;
				// drop the inbound message, keep the transaction.
				transactions = append(transactions, tx)
				continue
			}
			tx.InMsg = &entities.InboundMessage{
				ValueNano:   value,
				Source:      record.InMsg.Source,
				Destination: record.InMsg.Destination,
			}
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (g *Gateway) GetRecentJettonTransfers(ctx context.Context, ownerRaw, jettonMaster string, limit int) ([]entities.JettonTransfer, *apperrors.AppError) {
	query := url.Values{}
	query.Set("owner_address", ownerRaw)
	query.Set("jetton_master", jettonMaster)
	query.Set("direction", "in")
	query.Set("limit", strconv.Itoa(limit))

	// The v3 transfer feed returns a plain document, not the ok/result
	// wrapper the v2 endpoints use.
	var payload struct {
		JettonTransfers []jettonTransferRecord `json:"jetton_transfers"`
	}
	if appErr := g.getDocument(ctx, "/api/v3/jetton/transfers", query, &payload); appErr != nil {
		return nil, appErr
	}

	transfers := make([]entities.JettonTransfer, 0, len(payload.JettonTransfers))
	for _, record := range payload.JettonTransfers {
		amount, err := strconv.ParseInt(record.Amount, 10, 64)
		if err != nil {
			continue
		}
		transfers = append(transfers, entities.JettonTransfer{
			TransactionHash: record.TransactionHash,
			Amount:          amount,
			Source:          record.Source,
			Destination:     record.Destination,
			UTime:           record.UTime,
		})
	}
	return transfers, nil
}

func (g *Gateway) GetSeqno(ctx context.Context, addressRaw string) (uint32, *apperrors.AppError) {
	body := map[string]any{
		"address": addressRaw,
		"method":  "seqno",
		"stack":   []any{},
	}

	var result struct {
		ExitCode int     `json:"exit_code"`
		Stack    [][]any `json:"stack"`
	}
	if appErr := g.post(ctx, "/api/v2/runGetMethod", body, &result); appErr != nil {
		return 0, appErr
	}

	if result.ExitCode == exitCodeNotDeployed {
		return 0, apperrors.NewUnavailable(
			"wallet_not_deployed",
			"wallet contract is not deployed",
			map[string]any{"address": addressRaw},
		)
	}
	if result.ExitCode != 0 {
		return 0, apperrors.NewInternal(
			"seqno_get_method_failed",
			"seqno get method aborted",
			map[string]any{"exit_code": result.ExitCode},
		)
	}
	if len(result.Stack) == 0 || len(result.Stack[0]) < 2 {
		return 0, apperrors.NewInternal(
			"seqno_stack_malformed",
			"seqno get method returned a malformed stack",
			nil,
		)
	}

	// Stack entries come as ["num", "0x<hex>"].
	text, ok := result.Stack[0][1].(string)
	if !ok {
		return 0, apperrors.NewInternal(
			"seqno_stack_malformed",
			"seqno stack value is not a string",
			nil,
		)
	}
	seqno, err := strconv.ParseUint(strings.TrimPrefix(text, "0x"), 16, 32)
	if err != nil {
		return 0, apperrors.NewInternal(
			"seqno_parse_failed",
			"failed to parse seqno value",
			map[string]any{"value": text},
		)
	}
	return uint32(seqno), nil
}

func (g *Gateway) SendBOC(ctx context.Context, boc []byte) (string, *apperrors.AppError) {
	if len(boc) == 0 {
		return "", apperrors.NewValidation(
			"boc_empty",
			"message payload is required",
			nil,
		)
	}

	body := map[string]any{
		"boc": base64.StdEncoding.EncodeToString(boc),
	}

	var result struct {
		Hash string `json:"hash"`
	}
	if appErr := g.post(ctx, "/api/v2/sendBocReturnHash", body, &result); appErr != nil {
		return "", appErr
	}

	if result.Hash != "" {
		return result.Hash, nil
	}
	// Older endpoints acknowledge without a hash; fall back to the
	// message digest so the row still carries a stable reference.
	digest := sha256.Sum256(boc)
	return hex.EncodeToString(digest[:]), nil
}

func (g *Gateway) get(ctx context.Context, path string, query url.Values, out any) *apperrors.AppError {
	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternal(
			"chain_request_build_failed",
			"failed to build chain API request",
			map[string]any{"error": err.Error()},
		)
	}
	return g.do(request, out)
}

// getDocument fetches an endpoint whose response body is decoded directly
// into out, with no toncenter envelope in between.
func (g *Gateway) getDocument(ctx context.Context, path string, query url.Values, out any) *apperrors.AppError {
	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternal(
			"chain_request_build_failed",
			"failed to build chain API request",
			map[string]any{"error": err.Error()},
		)
	}

	response, appErr := g.send(request)
	if appErr != nil {
		return appErr
	}
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return apperrors.NewInternal(
			"chain_response_decode_failed",
			"failed to decode chain API response",
			map[string]any{"error": err.Error()},
		)
	}
	return nil
}

func (g *Gateway) post(ctx context.Context, path string, body any, out any) *apperrors.AppError {
	encoded, err := json.Marshal(body)
	if err != nil {
		return apperrors.NewInternal(
			"chain_request_encode_failed",
			"failed to encode chain API request",
			map[string]any{"error": err.Error()},
		)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, g.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return apperrors.NewInternal(
			"chain_request_build_failed",
			"failed to build chain API request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")
	return g.do(request, out)
}

// send runs the request and enforces a 200 status. The caller owns the
// response body on success.
func (g *Gateway) send(request *nethttp.Request) (*nethttp.Response, *apperrors.AppError) {
	if g.apiKey != "" {
		request.Header.Set("X-API-Key", g.apiKey)
	}

	response, err := g.client.Do(request)
	if err != nil {
		return nil, apperrors.NewUnavailable(
			"chain_endpoint_unreachable",
			"chain API request failed",
			map[string]any{"error": err.Error()},
		)
	}

	if response.StatusCode != nethttp.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		response.Body.Close()
		return nil, apperrors.NewUnavailable(
			"chain_endpoint_status",
			fmt.Sprintf("chain API returned status %d", response.StatusCode),
			map[string]any{"body": string(snippet)},
		)
	}
	return response, nil
}

func (g *Gateway) do(request *nethttp.Request, out any) *apperrors.AppError {
	response, appErr := g.send(request)
	if appErr != nil {
		return appErr
	}
	defer response.Body.Close()

	var wrapped envelope
	if err := json.NewDecoder(response.Body).Decode(&wrapped); err != nil {
		return apperrors.NewInternal(
			"chain_response_decode_failed",
			"failed to decode chain API response",
			map[string]any{"error": err.Error()},
		)
	}
	if !wrapped.OK {
		return apperrors.NewUnavailable(
			"chain_endpoint_error",
			"chain API reported an error",
			map[string]any{"error": wrapped.Error, "code": wrapped.Code},
		)
	}

	if err := json.Unmarshal(wrapped.Result, out); err != nil {
		return apperrors.NewInternal(
			"chain_response_decode_failed",
			"failed to decode chain API result",
			map[string]any{"error": err.Error()},
		)
	}
	return nil
}
