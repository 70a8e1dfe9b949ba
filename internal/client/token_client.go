package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"go.uber.org/zap"
)

// TokenAPI fetches ERC-20 token metadata (decimals, name, symbol) by contract
// address.
type TokenAPI interface {
	GetTokenMetadata(ctx context.Context, tokenAddress string) (*entity.TokenMetadataResponse, error)
}

// tokenClientImpl is the implementation of TokenAPI.
type tokenClientImpl struct {
	http   HTTPClient
	url    string
	logger *zap.Logger
}

// NewTokenClient creates a new instance of tokenClientImpl.
func NewTokenClient(http HTTPClient, baseURL, apiKey string, logger *zap.Logger) TokenAPI {
	return &tokenClientImpl{
		http:   http,
		url:    strings.TrimRight(baseURL, "/") + "/" + apiKey,
		logger: logger.Named("TokenClient"),
	}
}

// GetTokenMetadata implements the TokenAPI interface.
func (c *tokenClientImpl) GetTokenMetadata(ctx context.Context, tokenAddress string) (*entity.TokenMetadataResponse, error) {
	c.logger.Debug("Requesting token metadata", zap.String("tokenAddress", tokenAddress))

	var resp entity.TokenMetadataResponse
	if err := c.http.PostJSON(ctx, c.url, newRPCRequest("alchemy_getTokenMetadata", tokenAddress), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata for %s: %w", tokenAddress, err)
	}
	return &resp, nil
}
