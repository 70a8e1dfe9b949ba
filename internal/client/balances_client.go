package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"go.uber.org/zap"
)

// rpcRequest is the JSON-RPC 2.0 request envelope used by the Alchemy node
// endpoints.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

func newRPCRequest(method string, params ...interface{}) rpcRequest {
	return rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
}

// BalancesAPI fetches ERC-20 token balances and the native ETH balance for a
// wallet. Each call performs exactly one upstream request; retry policy, if
// any, belongs to the caller.
type BalancesAPI interface {
	GetTokenBalances(ctx context.Context, walletAddress string) (*entity.BalanceResponse, error)
	GetEthBalance(ctx context.Context, walletAddress string) (*entity.EthBalanceResponse, error)
}

// balancesClientImpl is the implementation of BalancesAPI.
type balancesClientImpl struct {
	http   HTTPClient
	url    string
	logger *zap.Logger
}

// NewBalancesClient creates a new instance of balancesClientImpl. baseURL is
// the node endpoint without the trailing API key segment.
func NewBalancesClient(http HTTPClient, baseURL, apiKey string, logger *zap.Logger) BalancesAPI {
	return &balancesClientImpl{
		http:   http,
		url:    strings.TrimRight(baseURL, "/") + "/" + apiKey,
		logger: logger.Named("BalancesClient"),
	}
}

// GetTokenBalances implements the BalancesAPI interface.
func (c *balancesClientImpl) GetTokenBalances(ctx context.Context, walletAddress string) (*entity.BalanceResponse, error) {
	c.logger.Debug("Requesting token balances", zap.String("address", walletAddress))

	var resp entity.BalanceResponse
	if err := c.http.PostJSON(ctx, c.url, newRPCRequest("alchemy_getTokenBalances", walletAddress), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch token balances for %s: %w", walletAddress, err)
	}
	return &resp, nil
}

// GetEthBalance implements the BalancesAPI interface.
func (c *balancesClientImpl) GetEthBalance(ctx context.Context, walletAddress string) (*entity.EthBalanceResponse, error) {
	c.logger.Debug("Requesting ETH balance", zap.String("address", walletAddress))

	var resp entity.EthBalanceResponse
	if err := c.http.PostJSON(ctx, c.url, newRPCRequest("eth_getBalance", walletAddress, "latest"), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch ETH balance for %s: %w", walletAddress, err)
	}
	return &resp, nil
}
