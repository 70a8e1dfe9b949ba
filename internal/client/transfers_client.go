package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"go.uber.org/zap"
)

// transfersPageSize is the per-page maximum the provider accepts for
// alchemy_getAssetTransfers.
const transfersPageSize = 100

// transferCategories selects every asset category the provider indexes.
var transferCategories = []string{"external", "erc20", "internal", "erc721", "erc1155", "specialnft"}

// TransfersAPI fetches the transfer history of an address. GetTransfers walks
// the provider's cursor pagination internally and returns the accumulated set
// in the shape of a single page.
type TransfersAPI interface {
	GetTransfers(ctx context.Context, address string, maxCount int) (*entity.TransferResponse, error)
}

// transfersClientImpl is the implementation of TransfersAPI.
type transfersClientImpl struct {
	http   HTTPClient
	url    string
	logger *zap.Logger
}

// transferParams is the single positional parameter object of
// alchemy_getAssetTransfers. MaxCount is hex-encoded per the wire format.
type transferParams struct {
	FromBlock        string   `json:"fromBlock"`
	ToBlock          string   `json:"toBlock"`
	ToAddress        string   `json:"toAddress"`
	Category         []string `json:"category"`
	WithMetadata     bool     `json:"withMetadata"`
	ExcludeZeroValue bool     `json:"excludeZeroValue"`
	MaxCount         string   `json:"maxCount"`
	PageKey          string   `json:"pageKey,omitempty"`
}

// NewTransfersClient creates a new instance of transfersClientImpl.
func NewTransfersClient(http HTTPClient, baseURL, apiKey string, logger *zap.Logger) TransfersAPI {
	return &transfersClientImpl{
		http:   http,
		url:    strings.TrimRight(baseURL, "/") + "/" + apiKey,
		logger: logger.Named("TransfersClient"),
	}
}

// GetTransfers implements the TransfersAPI interface. Pages are requested
// until maxCount transfers are collected, the provider stops returning a
// continuation cursor, or a page comes back empty (end of data, not an
// error). The per-page request size is min(transfersPageSize, remaining).
func (c *transfersClientImpl) GetTransfers(ctx context.Context, address string, maxCount int) (*entity.TransferResponse, error) {
	collected := make([]entity.RawTransfer, 0, maxCount)
	pageKey := ""

	for len(collected) < maxCount {
		count := maxCount - len(collected)
		if count > transfersPageSize {
			count = transfersPageSize
		}

		params := transferParams{
			FromBlock:        "0x0",
			ToBlock:          "latest",
			ToAddress:        strings.ToLower(address),
			Category:         transferCategories,
			WithMetadata:     true,
			ExcludeZeroValue: true,
			MaxCount:         fmt.Sprintf("0x%x", count),
			PageKey:          pageKey,
		}

		var page entity.TransferResponse
		if err := c.http.PostJSON(ctx, c.url, newRPCRequest("alchemy_getAssetTransfers", params), &page); err != nil {
			return nil, fmt.Errorf("failed to fetch transfers page for %s: %w", address, err)
		}

		if len(page.Result.Transfers) == 0 {
			break
		}
		collected = append(collected, page.Result.Transfers...)

		pageKey = page.Result.PageKey
		if pageKey == "" {
			break
		}
	}

	if len(collected) > maxCount {
		collected = collected[:maxCount]
	}

	c.logger.Debug("Assembled transfer pages",
		zap.String("address", address),
		zap.Int("requested", maxCount),
		zap.Int("collected", len(collected)))

	return &entity.TransferResponse{
		JSONRPC: "2.0",
		ID:      1,
		Result:  entity.TransferResult{Transfers: collected},
	}, nil
}
