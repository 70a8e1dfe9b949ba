package port

import (
	"context"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
)

// ApiService is the cached data-access point for everything the enrichment
// pipelines read. Every operation is a cache-aside read: a hit is served from
// memory, a miss falls through to the matching Alchemy client and is stored.
// Transport failures propagate to the caller and are never cached.
type ApiService interface {
	GetTokenBalances(ctx context.Context, walletAddress string) (*entity.BalanceResponse, error)
	GetEthBalance(ctx context.Context, walletAddress string) (*entity.EthBalanceResponse, error)
	GetUsdPrice(ctx context.Context, tokenAddress string) (*entity.TokenPriceResponse, error)
	GetUsdPriceBySymbol(ctx context.Context, symbol string) (*entity.TokenPriceResponse, error)
	GetTokenMetadata(ctx context.Context, tokenAddress string) (*entity.TokenMetadataResponse, error)
	GetTransfers(ctx context.Context, address string, maxCount int) (*entity.TransferResponse, error)
}

// BalanceService turns raw balances into valued ones. GetTokenBalancesWithUsd
// returns every nonzero ERC-20 position plus exactly one native-coin entry
// (appended last, under entity.EthContractSentinel). Individual tokens whose
// enrichment fails or times out are dropped from the result; only a failure
// of the base balance or native-coin fetch fails the call.
type BalanceService interface {
	GetTokenBalancesWithUsd(ctx context.Context, walletAddress string) ([]entity.TokenBalance, error)
	GetEthBalanceWithUsd(ctx context.Context, walletAddress string) (entity.TokenBalance, error)
}

// TransferService turns the paged raw transfer history into normalized,
// timestamped records. Transfers whose conversion fails (e.g. an unparsable
// block timestamp) are dropped, not substituted with zero values.
type TransferService interface {
	GetHistoricalTransfers(ctx context.Context, walletAddress string, maxCount int) ([]entity.HistoricalTransfer, error)
}

// SwapDetector classifies a normalized transfer as part of a DEX swap. It is
// a pure predicate: it never fails, and a nil transfer or missing address
// component simply does not match.
type SwapDetector interface {
	IsSwap(transfer *entity.HistoricalTransfer) bool
}

// WalletAnalyzer is the single entry point callers invoke. Address syntax is
// validated by the caller, not re-checked here.
type WalletAnalyzer interface {
	Analyze(ctx context.Context, address string, maxCount int) (*entity.WalletAnalysisReport, error)
	AnalyzeAndExport(ctx context.Context, address string, maxCount int, outputPath string) error
}
