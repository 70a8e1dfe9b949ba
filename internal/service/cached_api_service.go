package service

import (
	"context"
	"fmt"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/cache"
	"github.com/rbbozkurt/eth-monitor/internal/client"
	"github.com/rbbozkurt/eth-monitor/internal/config"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
	"github.com/rbbozkurt/eth-monitor/internal/metrics"

	"go.uber.org/zap"
)

// cachedApiServiceImpl is the implementation of port.ApiService. It fronts the
// four upstream clients with one cache per data kind; concurrent misses for
// the same key collapse into a single upstream call, and upstream errors
// propagate without being cached.
type cachedApiServiceImpl struct {
	balancesAPI  client.BalancesAPI
	pricesAPI    client.PricesAPI
	tokenAPI     client.TokenAPI
	transfersAPI client.TransfersAPI

	balanceCache    *cache.Cache[string, *entity.BalanceResponse]
	ethBalanceCache *cache.Cache[string, *entity.EthBalanceResponse]
	priceCache      *cache.Cache[string, *entity.TokenPriceResponse]
	tokenCache      *cache.Cache[string, *entity.TokenMetadataResponse]
	transferCache   *cache.Cache[string, *entity.TransferResponse]

	logger *zap.Logger
}

// NewCachedApiService creates a new instance of cachedApiServiceImpl with one
// cache per upstream data kind, sized per the given profiles.
func NewCachedApiService(
	balancesAPI client.BalancesAPI,
	pricesAPI client.PricesAPI,
	tokenAPI client.TokenAPI,
	transfersAPI client.TransfersAPI,
	cfg config.CacheConfig,
	logger *zap.Logger,
) port.ApiService {
	return &cachedApiServiceImpl{
		balancesAPI:  balancesAPI,
		pricesAPI:    pricesAPI,
		tokenAPI:     tokenAPI,
		transfersAPI: transfersAPI,

		balanceCache:    cache.New[string, *entity.BalanceResponse](cfg.Balances.MaxSize, cfg.Balances.TTL()),
		ethBalanceCache: cache.New[string, *entity.EthBalanceResponse](cfg.EthBalance.MaxSize, cfg.EthBalance.TTL()),
		priceCache:      cache.New[string, *entity.TokenPriceResponse](cfg.Prices.MaxSize, cfg.Prices.TTL()),
		tokenCache:      cache.New[string, *entity.TokenMetadataResponse](cfg.Metadata.MaxSize, cfg.Metadata.TTL()),
		transferCache:   cache.New[string, *entity.TransferResponse](cfg.Transfers.MaxSize, cfg.Transfers.TTL()),

		logger: logger.Named("CachedApiService"),
	}
}

// GetTokenBalances implements the port.ApiService interface.
func (s *cachedApiServiceImpl) GetTokenBalances(ctx context.Context, walletAddress string) (*entity.BalanceResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("balances").Inc()

	return s.balanceCache.GetOrCompute(walletAddress, func() (*entity.BalanceResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("balances").Inc()
		resp, err := s.balancesAPI.GetTokenBalances(ctx, walletAddress)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("balances").Inc()
			s.logger.Error("Token balances fetch failed", zap.String("address", walletAddress), zap.Error(err))
			return nil, fmt.Errorf("token balances for %s: %w", walletAddress, err)
		}
		return resp, nil
	})
}

// GetEthBalance implements the port.ApiService interface.
func (s *cachedApiServiceImpl) GetEthBalance(ctx context.Context, walletAddress string) (*entity.EthBalanceResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("eth_balance").Inc()

	return s.ethBalanceCache.GetOrCompute(walletAddress, func() (*entity.EthBalanceResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("eth_balance").Inc()
		resp, err := s.balancesAPI.GetEthBalance(ctx, walletAddress)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("eth_balance").Inc()
			s.logger.Error("ETH balance fetch failed", zap.String("address", walletAddress), zap.Error(err))
			return nil, fmt.Errorf("eth balance for %s: %w", walletAddress, err)
		}
		return resp, nil
	})
}

// GetUsdPrice implements the port.ApiService interface. Address and symbol
// lookups share the price cache under disjoint key prefixes.
func (s *cachedApiServiceImpl) GetUsdPrice(ctx context.Context, tokenAddress string) (*entity.TokenPriceResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("prices").Inc()

	return s.priceCache.GetOrCompute("price:"+tokenAddress, func() (*entity.TokenPriceResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("prices").Inc()
		resp, err := s.pricesAPI.GetUsdPrice(ctx, tokenAddress)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("prices").Inc()
			s.logger.Error("Price fetch failed", zap.String("tokenAddress", tokenAddress), zap.Error(err))
			return nil, fmt.Errorf("usd price for %s: %w", tokenAddress, err)
		}
		return resp, nil
	})
}

// GetUsdPriceBySymbol implements the port.ApiService interface.
func (s *cachedApiServiceImpl) GetUsdPriceBySymbol(ctx context.Context, symbol string) (*entity.TokenPriceResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("prices").Inc()

	return s.priceCache.GetOrCompute("price:symbol:"+symbol, func() (*entity.TokenPriceResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("prices").Inc()
		resp, err := s.pricesAPI.GetUsdPriceBySymbol(ctx, symbol)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("prices").Inc()
			s.logger.Error("Price-by-symbol fetch failed", zap.String("symbol", symbol), zap.Error(err))
			return nil, fmt.Errorf("usd price for symbol %s: %w", symbol, err)
		}
		return resp, nil
	})
}

// GetTokenMetadata implements the port.ApiService interface.
func (s *cachedApiServiceImpl) GetTokenMetadata(ctx context.Context, tokenAddress string) (*entity.TokenMetadataResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("metadata").Inc()

	return s.tokenCache.GetOrCompute(tokenAddress, func() (*entity.TokenMetadataResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("metadata").Inc()
		resp, err := s.tokenAPI.GetTokenMetadata(ctx, tokenAddress)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("metadata").Inc()
			s.logger.Error("Token metadata fetch failed", zap.String("tokenAddress", tokenAddress), zap.Error(err))
			return nil, fmt.Errorf("token metadata for %s: %w", tokenAddress, err)
		}
		return resp, nil
	})
}

// GetTransfers implements the port.ApiService interface. The cache key
// includes maxCount so requests for different history depths never alias.
func (s *cachedApiServiceImpl) GetTransfers(ctx context.Context, address string, maxCount int) (*entity.TransferResponse, error) {
	metrics.CacheRequestsTotal.WithLabelValues("transfers").Inc()

	key := fmt.Sprintf("%s::%d", address, maxCount)
	return s.transferCache.GetOrCompute(key, func() (*entity.TransferResponse, error) {
		metrics.UpstreamRequestsTotal.WithLabelValues("transfers").Inc()
		resp, err := s.transfersAPI.GetTransfers(ctx, address, maxCount)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("transfers").Inc()
			s.logger.Error("Transfers fetch failed", zap.String("address", address), zap.Error(err))
			return nil, fmt.Errorf("transfers for %s: %w", address, err)
		}
		return resp, nil
	})
}
