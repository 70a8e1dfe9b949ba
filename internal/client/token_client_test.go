package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetTokenMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRPC(t, r)
		assert.Equal(t, "alchemy_getTokenMetadata", req.Method)
		require.Len(t, req.Params, 1)
		assert.Equal(t, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", req.Params[0])

		_, _ = w.Write([]byte(`{
			"jsonrpc": "2.0",
			"id": 1,
			"result": {"decimals": 6, "logo": "", "name": "USD Coin", "symbol": "USDC"}
		}`))
	}))
	defer ts.Close()

	httpClient := NewHTTPClient(2*time.Second, nil, zap.NewNop())
	api := NewTokenClient(httpClient, ts.URL, "test-key", zap.NewNop())

	resp, err := api.GetTokenMetadata(context.Background(), "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	require.NoError(t, err)

	assert.Equal(t, 6, resp.Result.Decimals)
	assert.Equal(t, "USDC", resp.Result.Symbol)
	assert.Equal(t, "USD Coin", resp.Result.Name)
}
