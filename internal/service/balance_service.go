package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/cache"
	"github.com/rbbozkurt/eth-monitor/internal/config"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
	"github.com/rbbozkurt/eth-monitor/internal/metrics"
	"github.com/rbbozkurt/eth-monitor/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// usdScale is the number of fractional digits USD values are rounded to.
const usdScale = 6

// balanceServiceImpl is the implementation of port.BalanceService. It values
// each nonzero token position concurrently under a bounded worker pool; the
// fully valued slice for a wallet is memoized so repeated analyses within the
// TTL skip the whole fan-out.
type balanceServiceImpl struct {
	api           port.ApiService
	valuedCache   *cache.Cache[string, []entity.TokenBalance]
	maxConcurrent int
	taskTimeout   time.Duration
	logger        *zap.Logger
}

// NewBalanceService creates a new instance of balanceServiceImpl.
func NewBalanceService(api port.ApiService, enrichCfg config.EnrichmentConfig, cacheCfg config.CacheProfile, logger *zap.Logger) port.BalanceService {
	return &balanceServiceImpl{
		api:           api,
		valuedCache:   cache.New[string, []entity.TokenBalance](cacheCfg.MaxSize, cacheCfg.TTL()),
		maxConcurrent: enrichCfg.MaxConcurrentTasks,
		taskTimeout:   enrichCfg.TaskTimeout(),
		logger:        logger.Named("BalanceService"),
	}
}

// GetTokenBalancesWithUsd implements the port.BalanceService interface.
func (s *balanceServiceImpl) GetTokenBalancesWithUsd(ctx context.Context, walletAddress string) ([]entity.TokenBalance, error) {
	return s.valuedCache.GetOrCompute(walletAddress, func() ([]entity.TokenBalance, error) {
		return s.collectTokenBalances(ctx, walletAddress)
	})
}

// tokenCandidate is one raw balance that survived filtering.
type tokenCandidate struct {
	contractAddress string
	rawBalance      string
}

// collectTokenBalances fetches the raw balance set, drops errored and zero
// entries, and values the survivors concurrently. A token whose enrichment
// fails or exceeds the per-task timeout is dropped; a failure of the base
// balance fetch or of the native ETH valuation fails the whole call.
func (s *balanceServiceImpl) collectTokenBalances(ctx context.Context, walletAddress string) ([]entity.TokenBalance, error) {
	resp, err := s.api.GetTokenBalances(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token balances for %s: %w", walletAddress, err)
	}

	candidates := make([]tokenCandidate, 0, len(resp.Result.TokenBalances))
	for _, raw := range resp.Result.TokenBalances {
		if raw.Error != "" {
			s.logger.Warn("Skipping errored token balance",
				zap.String("contract", raw.ContractAddress), zap.String("error", raw.Error))
			continue
		}
		amount, err := utils.ParseHexBig(raw.TokenBalance)
		if err != nil {
			s.logger.Warn("Skipping unparsable token balance",
				zap.String("contract", raw.ContractAddress), zap.Error(err))
			continue
		}
		if amount.Sign() == 0 {
			continue
		}
		candidates = append(candidates, tokenCandidate{
			contractAddress: raw.ContractAddress,
			rawBalance:      raw.TokenBalance,
		})
	}

	results := make([]*entity.TokenBalance, len(candidates))
	var ethBalance entity.TokenBalance

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrent)

	for i, cand := range candidates {
		eg.Go(func() error {
			tb, err := s.enrichTokenBalance(egCtx, cand)
			if err != nil {
				reason := "error"
				if errors.Is(err, context.DeadlineExceeded) {
					reason = "timeout"
				}
				metrics.EnrichmentDroppedTotal.WithLabelValues("balances", reason).Inc()
				s.logger.Warn("Dropping token from valuation",
					zap.String("contract", cand.contractAddress), zap.Error(err))
				return nil
			}
			results[i] = tb
			return nil
		})
	}

	// Native ETH rides the same pool but its failure is fatal: a report
	// without the chain's own coin is not a report.
	eg.Go(func() error {
		tb, err := s.GetEthBalanceWithUsd(egCtx, walletAddress)
		if err != nil {
			return err
		}
		ethBalance = tb
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to value balances for %s: %w", walletAddress, err)
	}

	balances := make([]entity.TokenBalance, 0, len(results)+1)
	for _, tb := range results {
		if tb != nil {
			balances = append(balances, *tb)
		}
	}
	balances = append(balances, ethBalance)

	s.logger.Info("Valued wallet balances",
		zap.String("address", walletAddress),
		zap.Int("candidates", len(candidates)),
		zap.Int("valued", len(balances)))
	return balances, nil
}

// enrichTokenBalance values a single ERC-20 position under the per-task
// timeout: metadata for decimals and symbol, then a USD quote by address.
func (s *balanceServiceImpl) enrichTokenBalance(ctx context.Context, cand tokenCandidate) (*entity.TokenBalance, error) {
	tctx, cancel := context.WithTimeout(ctx, s.taskTimeout)
	defer cancel()

	meta, err := s.api.GetTokenMetadata(tctx, cand.contractAddress)
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", cand.contractAddress, err)
	}
	if meta.Result.Decimals <= 0 {
		return nil, fmt.Errorf("no decimals in metadata for %s", cand.contractAddress)
	}

	amount, err := utils.ParseHexBig(cand.rawBalance)
	if err != nil {
		return nil, fmt.Errorf("balance for %s: %w", cand.contractAddress, err)
	}
	balance := decimal.NewFromBigInt(amount, -int32(meta.Result.Decimals))

	priceResp, err := s.api.GetUsdPrice(tctx, cand.contractAddress)
	if err != nil {
		return nil, fmt.Errorf("price for %s: %w", cand.contractAddress, err)
	}

	return &entity.TokenBalance{
		TokenSymbol:     meta.Result.Symbol,
		ContractAddress: cand.contractAddress,
		Balance:         balance,
		UsdValue:        balance.Mul(usdQuote(priceResp)).Round(usdScale),
	}, nil
}

// GetEthBalanceWithUsd implements the port.BalanceService interface. The
// native balance is reported under the sentinel contract address with the
// fixed 18-decimal scale, priced by the ETH ticker symbol.
func (s *balanceServiceImpl) GetEthBalanceWithUsd(ctx context.Context, walletAddress string) (entity.TokenBalance, error) {
	resp, err := s.api.GetEthBalance(ctx, walletAddress)
	if err != nil {
		return entity.TokenBalance{}, fmt.Errorf("failed to fetch ETH balance for %s: %w", walletAddress, err)
	}

	wei, err := utils.ParseHexBig(resp.Result)
	if err != nil {
		return entity.TokenBalance{}, fmt.Errorf("failed to parse ETH balance %q: %w", resp.Result, err)
	}
	balance := decimal.NewFromBigInt(wei, -entity.EthDecimals)

	priceResp, err := s.api.GetUsdPriceBySymbol(ctx, entity.EthSymbol)
	if err != nil {
		return entity.TokenBalance{}, fmt.Errorf("failed to fetch ETH price: %w", err)
	}

	return entity.TokenBalance{
		TokenSymbol:     entity.EthSymbol,
		ContractAddress: entity.EthContractSentinel,
		Balance:         balance,
		UsdValue:        balance.Mul(usdQuote(priceResp)).Round(usdScale),
	}, nil
}

// usdQuote extracts the first usable "usd" quote from a price response. A
// missing or errored quote values as zero rather than failing the token.
func usdQuote(resp *entity.TokenPriceResponse) decimal.Decimal {
	if resp == nil {
		return decimal.Zero
	}
	for _, entry := range resp.Data {
		if entry.Error != nil {
			continue
		}
		for _, quote := range entry.Prices {
			if !strings.EqualFold(quote.Currency, "usd") {
				continue
			}
			value, err := decimal.NewFromString(quote.Value)
			if err != nil {
				continue
			}
			return value
		}
	}
	return decimal.Zero
}
