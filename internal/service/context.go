package service

import (
	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/client"
	"github.com/rbbozkurt/eth-monitor/internal/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Credentials holds the per-API keys. Each upstream may be keyed separately;
// in the common single-key setup all four carry the same value.
type Credentials struct {
	BalancesAPIKey  string
	PricesAPIKey    string
	TokensAPIKey    string
	TransfersAPIKey string
}

// AnalyzerContext is the fully wired object graph for one credential set:
// transport, clients, caches, pipelines and the analyzer on top.
type AnalyzerContext struct {
	Api      port.ApiService
	Analyzer port.WalletAnalyzer
}

// NewAnalyzerContext wires the whole stack from configuration and credentials.
func NewAnalyzerContext(cfg *config.Config, creds Credentials, logger *zap.Logger) *AnalyzerContext {
	var limiter *rate.Limiter
	if cfg.Alchemy.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Alchemy.RateLimit), cfg.Alchemy.BurstLimit)
	}
	httpClient := client.NewHTTPClient(cfg.Alchemy.RequestTimeout(), limiter, logger)

	balancesAPI := client.NewBalancesClient(httpClient, cfg.Alchemy.RPCBaseURL, creds.BalancesAPIKey, logger)
	pricesAPI := client.NewPricesClient(httpClient, cfg.Alchemy.PricesBaseURL, creds.PricesAPIKey, logger)
	tokenAPI := client.NewTokenClient(httpClient, cfg.Alchemy.RPCBaseURL, creds.TokensAPIKey, logger)
	transfersAPI := client.NewTransfersClient(httpClient, cfg.Alchemy.RPCBaseURL, creds.TransfersAPIKey, logger)

	api := NewCachedApiService(balancesAPI, pricesAPI, tokenAPI, transfersAPI, cfg.Cache, logger)

	balanceService := NewBalanceService(api, cfg.Enrichment, cfg.Cache.ValuedBalances, logger)
	transferService := NewTransferService(api, cfg.Enrichment, logger)

	contracts := cfg.SwapContracts
	if len(contracts) == 0 {
		contracts = DefaultDEXContracts
	}
	detector := NewSwapDetector(contracts)

	return &AnalyzerContext{
		Api:      api,
		Analyzer: NewWalletAnalyzer(balanceService, transferService, detector, logger),
	}
}
