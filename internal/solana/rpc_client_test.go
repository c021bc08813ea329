package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(req rpcRequest) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handler(req),
		})
	}))
}

func TestGetAccountInfo(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("hello"))
	server := rpcServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "getAccountInfo", req.Method)
		return map[string]interface{}{
			"value": map[string]interface{}{
				"lamports":   uint64(2039280),
				"owner":      "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
				"data":       []string{data, "base64"},
				"executable": false,
			},
		}
	})
	defer server.Close()

	info, err := NewHTTPClient(server.URL).GetAccountInfo(context.Background(), "somekey")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, uint64(2039280), info.Lamports)
	require.Equal(t, data, info.Data)
}

func TestGetAccountInfo_MissingAccountIsNil(t *testing.T) {
	server := rpcServer(t, func(rpcRequest) interface{} {
		return map[string]interface{}{"value": nil}
	})
	defer server.Close()

	info, err := NewHTTPClient(server.URL).GetAccountInfo(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestGetTokenAccountBalance(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "getTokenAccountBalance", req.Method)
		return map[string]interface{}{
			"value": map[string]interface{}{
				"amount":   "1000000000",
				"decimals": 9,
				"uiAmount": 1.0,
			},
		}
	})
	defer server.Close()

	bal, err := NewHTTPClient(server.URL).GetTokenAccountBalance(context.Background(), "vault")
	require.NoError(t, err)
	require.Equal(t, "1000000000", bal.Amount)
	require.Equal(t, 9, bal.Decimals)
	require.Equal(t, 1.0, bal.UIAmount)
}

func TestGetTransaction(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "getTransaction", req.Method)
		return map[string]interface{}{
			"slot":      int64(123456),
			"blockTime": int64(1700000000),
			"meta": map[string]interface{}{
				"err":         nil,
				"logMessages": []string{"Program log: initialize2"},
			},
			"transaction": map[string]interface{}{
				"message": map[string]interface{}{
					"accountKeys": []string{"addr1", "addr2"},
				},
			},
		}
	})
	defer server.Close()

	tx, err := NewHTTPClient(server.URL).GetTransaction(context.Background(), "sig123")
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.Equal(t, int64(123456), tx.Slot)
	require.Equal(t, int64(1700000000), tx.BlockTime)
	require.Equal(t, []string{"addr1", "addr2"}, tx.Message.AccountKeys)
}

func TestCall_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]interface{}{"value": nil},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3))
	client.retryDelay = 0

	_, err := client.GetAccountInfo(context.Background(), "key")
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestCall_RPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		calls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "invalid params"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3))
	client.retryDelay = 0

	_, err := client.GetAccountInfo(context.Background(), "key")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid params")
	require.Equal(t, int32(1), calls.Load())
}
