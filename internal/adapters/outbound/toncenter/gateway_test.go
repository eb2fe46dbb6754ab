//go:build !integration

package toncenter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

func newTestGateway(handler http.HandlerFunc) (*Gateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	gateway := NewGateway(Config{BaseURL: server.URL, APIKey: "test-key"})
	return gateway, server
}

func TestGetRecentTransactionsParsesInboundMessages(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/getTransactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Fatalf("expected the api key header, got %q", r.Header.Get("X-API-Key"))
		}
		if r.URL.Query().Get("address") == "" {
			t.Fatal("expected an address parameter")
		}
		w.Write([]byte(`{
			"ok": true,
			"result": [
				{
					"transaction_id": {"hash": "hash_1", "lt": "123"},
					"utime": 1700000000,
					"in_msg": {"source": "src", "destination": "dst", "value": "2000000000"}
				},
				{
					"transaction_id": {"hash": "hash_2", "lt": "124"},
					"utime": 1700000100
				},
				{
					"transaction_id": {"hash": "hash_3", "lt": "125"},
					"utime": 1700000200,
					"in_msg": {"source": "src", "destination": "dst", "value": "not-a-number"}
				}
			]
		}`))
	})
	defer server.Close()

	transactions, appErr := gateway.GetRecentTransactions(context.Background(), "0:ab", 50)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}
	if transactions[0].InMsg == nil || transactions[0].InMsg.ValueNano != 2_000_000_000 {
		t.Fatalf("expected a parsed inbound value, got %+v", transactions[0].InMsg)
	}
	if transactions[0].LT != 123 {
		t.Fatalf("expected lt=123, got %d", transactions[0].LT)
	}
	if transactions[1].InMsg != nil {
		t.Fatal("a transaction without in_msg must carry nil")
	}
	if transactions[2].InMsg != nil {
		t.Fatal("an unparseable value must drop the inbound message")
	}
}

func TestGetRecentJettonTransfersDecodesPlainDocument(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/jetton/transfers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("jetton_master") != "0:master" {
			t.Fatalf("expected the jetton master parameter, got %q", r.URL.Query().Get("jetton_master"))
		}
		if r.URL.Query().Get("direction") != "in" {
			t.Fatalf("expected direction=in, got %q", r.URL.Query().Get("direction"))
		}
		w.Write([]byte(`{
			"jetton_transfers": [
				{
					"transaction_hash": "jt_hash_1",
					"amount": "25000000",
					"source": "0:src",
					"destination": "0:dst",
					"utime": 1700000300
				},
				{
					"transaction_hash": "jt_hash_2",
					"amount": "not-a-number",
					"source": "0:src",
					"destination": "0:dst",
					"utime": 1700000400
				}
			]
		}`))
	})
	defer server.Close()

	transfers, appErr := gateway.GetRecentJettonTransfers(context.Background(), "0:owner", "0:master", 50)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected the unparseable amount to be dropped, got %d transfers", len(transfers))
	}
	if transfers[0].TransactionHash != "jt_hash_1" {
		t.Fatalf("unexpected transaction hash %s", transfers[0].TransactionHash)
	}
	if transfers[0].Amount != 25_000_000 {
		t.Fatalf("unexpected amount %d", transfers[0].Amount)
	}
	if transfers[0].UTime != 1700000300 {
		t.Fatalf("unexpected utime %d", transfers[0].UTime)
	}
}

func TestGetRecentJettonTransfersReportsEndpointStatus(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, appErr := gateway.GetRecentJettonTransfers(context.Background(), "0:owner", "0:master", 50)
	if appErr == nil {
		t.Fatal("expected an error for a 502 response")
	}
	if appErr.Code != "chain_endpoint_status" || appErr.Type != apperrors.TypeUnavailable {
		t.Fatalf("unexpected error %+v", appErr)
	}
}

func TestGetSeqnoMapsNotDeployedToUnavailable(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "result": {"exit_code": -13, "stack": []}}`))
	})
	defer server.Close()

	_, appErr := gateway.GetSeqno(context.Background(), "0:ab")
	if appErr == nil || appErr.Code != "wallet_not_deployed" {
		t.Fatalf("expected wallet_not_deployed, got %+v", appErr)
	}
	if appErr.Type != apperrors.TypeUnavailable {
		t.Fatalf("expected an unavailable error, got %s", appErr.Type)
	}
}

func TestGetSeqnoParsesHexStackValue(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "result": {"exit_code": 0, "stack": [["num", "0x2a"]]}}`))
	})
	defer server.Close()

	seqno, appErr := gateway.GetSeqno(context.Background(), "0:ab")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if seqno != 42 {
		t.Fatalf("expected seqno 42, got %d", seqno)
	}
}

func TestSendBOCReturnsEndpointHash(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/sendBocReturnHash" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok": true, "result": {"hash": "endpoint_hash"}}`))
	})
	defer server.Close()

	hash, appErr := gateway.SendBOC(context.Background(), []byte{0xb5, 0xee})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if hash != "endpoint_hash" {
		t.Fatalf("expected endpoint_hash, got %s", hash)
	}
}

func TestSendBOCFallsBackToDigest(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true, "result": {}}`))
	})
	defer server.Close()

	boc := []byte{0xb5, 0xee, 0x9c, 0x72}
	hash, appErr := gateway.SendBOC(context.Background(), boc)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}

	digest := sha256.Sum256(boc)
	if hash != hex.EncodeToString(digest[:]) {
		t.Fatalf("expected the digest fallback, got %s", hash)
	}
}

func TestEnvelopeErrorSurfacesAsUnavailable(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "rate limited", "code": 429}`))
	})
	defer server.Close()

	_, appErr := gateway.GetRecentTransactions(context.Background(), "0:ab", 10)
	if appErr == nil || appErr.Type != apperrors.TypeUnavailable {
		t.Fatalf("expected an unavailable error, got %+v", appErr)
	}
}

func TestNonOKStatusSurfacesAsUnavailable(t *testing.T) {
	gateway, server := newTestGateway(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	defer server.Close()

	_, appErr := gateway.GetRecentTransactions(context.Background(), "0:ab", 10)
	if appErr == nil || appErr.Code != "chain_endpoint_status" {
		t.Fatalf("expected chain_endpoint_status, got %+v", appErr)
	}
}
