package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"go.uber.org/zap"
)

// alchemyNetwork is the network identifier the Prices API expects for
// Ethereum mainnet lookups.
const alchemyNetwork = "eth-mainnet"

// PricesAPI fetches USD price quotes from the Alchemy Prices API, either by
// token contract address or by ticker symbol.
type PricesAPI interface {
	GetUsdPrice(ctx context.Context, tokenAddress string) (*entity.TokenPriceResponse, error)
	GetUsdPriceBySymbol(ctx context.Context, symbol string) (*entity.TokenPriceResponse, error)
}

// pricesClientImpl is the implementation of PricesAPI.
type pricesClientImpl struct {
	http    HTTPClient
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// priceByAddressRequest is the body of the by-address price lookup.
type priceByAddressRequest struct {
	Addresses []priceAddress `json:"addresses"`
}

type priceAddress struct {
	Network string `json:"network"`
	Address string `json:"address"`
}

// NewPricesClient creates a new instance of pricesClientImpl.
func NewPricesClient(http HTTPClient, baseURL, apiKey string, logger *zap.Logger) PricesAPI {
	return &pricesClientImpl{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger.Named("PricesClient"),
	}
}

// GetUsdPrice implements the PricesAPI interface.
func (c *pricesClientImpl) GetUsdPrice(ctx context.Context, tokenAddress string) (*entity.TokenPriceResponse, error) {
	c.logger.Debug("Requesting price by address", zap.String("tokenAddress", tokenAddress))

	requestURL := fmt.Sprintf("%s/%s/tokens/by-address", c.baseURL, c.apiKey)
	body := priceByAddressRequest{
		Addresses: []priceAddress{{Network: alchemyNetwork, Address: tokenAddress}},
	}

	var resp entity.TokenPriceResponse
	if err := c.http.PostJSON(ctx, requestURL, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch price by address %s: %w", tokenAddress, err)
	}
	return &resp, nil
}

// GetUsdPriceBySymbol implements the PricesAPI interface.
func (c *pricesClientImpl) GetUsdPriceBySymbol(ctx context.Context, symbol string) (*entity.TokenPriceResponse, error) {
	c.logger.Debug("Requesting price by symbol", zap.String("symbol", symbol))

	requestURL := fmt.Sprintf("%s/%s/tokens/by-symbol?symbols=%s", c.baseURL, c.apiKey, url.QueryEscape(symbol))

	var resp entity.TokenPriceResponse
	if err := c.http.GetJSON(ctx, requestURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch price by symbol %s: %w", symbol, err)
	}
	return &resp, nil
}
