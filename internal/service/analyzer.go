package service

import (
	"context"
	"fmt"
	"os"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
	"github.com/rbbozkurt/eth-monitor/internal/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// walletAnalyzerImpl is the implementation of port.WalletAnalyzer. It runs the
// balance and transfer pipelines concurrently and folds their outputs into a
// single report.
type walletAnalyzerImpl struct {
	balances  port.BalanceService
	transfers port.TransferService
	detector  port.SwapDetector
	logger    *zap.Logger
}

// NewWalletAnalyzer creates a new instance of walletAnalyzerImpl.
func NewWalletAnalyzer(balances port.BalanceService, transfers port.TransferService, detector port.SwapDetector, logger *zap.Logger) port.WalletAnalyzer {
	return &walletAnalyzerImpl{
		balances:  balances,
		transfers: transfers,
		detector:  detector,
		logger:    logger.Named("WalletAnalyzer"),
	}
}

// Analyze implements the port.WalletAnalyzer interface. maxCount bounds the
// transfer history depth; either pipeline failing fails the analysis.
func (a *walletAnalyzerImpl) Analyze(ctx context.Context, address string, maxCount int) (*entity.WalletAnalysisReport, error) {
	var (
		balances  []entity.TokenBalance
		transfers []entity.HistoricalTransfer
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		balances, err = a.balances.GetTokenBalancesWithUsd(egCtx, address)
		return err
	})
	eg.Go(func() error {
		var err error
		transfers, err = a.transfers.GetHistoricalTransfers(egCtx, address, maxCount)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyze wallet %s: %w", address, err)
	}

	swapCount := 0
	totalVolume := decimal.Zero
	for i := range transfers {
		if a.detector.IsSwap(&transfers[i]) {
			swapCount++
		}
		totalVolume = totalVolume.Add(transfers[i].Value)
	}

	totalBalance := decimal.Zero
	for _, tb := range balances {
		totalBalance = totalBalance.Add(tb.UsdValue)
	}

	metrics.AnalysesTotal.Inc()
	a.logger.Info("Wallet analysis complete",
		zap.String("address", address),
		zap.Int("transfers", len(transfers)),
		zap.Int("swaps", swapCount),
		zap.Int("balances", len(balances)))

	return &entity.WalletAnalysisReport{
		WalletAddress:         address,
		TotalTransactionCount: len(transfers),
		TotalVolumeUsd:        totalVolume.Round(usdScale),
		EstimatedSwapCount:    swapCount,
		Balances:              balances,
		Transfers:             transfers,
		TotalBalanceUsd:       totalBalance.Round(usdScale),
	}, nil
}

// AnalyzeAndExport implements the port.WalletAnalyzer interface, writing the
// report to outputPath as indented JSON.
func (a *walletAnalyzerImpl) AnalyzeAndExport(ctx context.Context, address string, maxCount int, outputPath string) error {
	report, err := a.Analyze(ctx, address, maxCount)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report for %s: %w", address, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", outputPath, err)
	}

	a.logger.Info("Report exported", zap.String("address", address), zap.String("path", outputPath))
	return nil
}
