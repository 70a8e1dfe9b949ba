package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBalanceService struct {
	balances []entity.TokenBalance
	err      error
}

func (s *stubBalanceService) GetTokenBalancesWithUsd(ctx context.Context, walletAddress string) ([]entity.TokenBalance, error) {
	return s.balances, s.err
}

func (s *stubBalanceService) GetEthBalanceWithUsd(ctx context.Context, walletAddress string) (entity.TokenBalance, error) {
	if s.err != nil {
		return entity.TokenBalance{}, s.err
	}
	return s.balances[len(s.balances)-1], nil
}

type stubTransferService struct {
	transfers []entity.HistoricalTransfer
	err       error
}

func (s *stubTransferService) GetHistoricalTransfers(ctx context.Context, walletAddress string, maxCount int) ([]entity.HistoricalTransfer, error) {
	return s.transfers, s.err
}

func testAnalyzerFixtures() (*stubBalanceService, *stubTransferService) {
	balances := &stubBalanceService{
		balances: []entity.TokenBalance{
			{TokenSymbol: "TKA", ContractAddress: "0x1", Balance: decimal.RequireFromString("10"), UsdValue: decimal.RequireFromString("25.5")},
			{TokenSymbol: "TKB", ContractAddress: "0x2", Balance: decimal.RequireFromString("3"), UsdValue: decimal.RequireFromString("4.25")},
			{TokenSymbol: entity.EthSymbol, ContractAddress: entity.EthContractSentinel, Balance: decimal.RequireFromString("1"), UsdValue: decimal.RequireFromString("3000")},
		},
	}
	transfers := &stubTransferService{
		transfers: []entity.HistoricalTransfer{
			{TxHash: "0xa", Timestamp: time.Now(), Value: decimal.RequireFromString("5"), To: "0xsomeone"},
			{TxHash: "0xb", Timestamp: time.Now(), Value: decimal.RequireFromString("10"), To: "0x7a250d5630b4cf539739df2c5dacabf31d1c8ed8"},
			{TxHash: "0xc", Timestamp: time.Now(), Value: decimal.RequireFromString("0.5"), To: "0xsomeone"},
		},
	}
	return balances, transfers
}

func TestAnalyzeBuildsReport(t *testing.T) {
	balances, transfers := testAnalyzerFixtures()
	analyzer := NewWalletAnalyzer(balances, transfers, NewSwapDetector(DefaultDEXContracts), zap.NewNop())

	report, err := analyzer.Analyze(context.Background(), "0xwallet", 100)
	require.NoError(t, err)

	assert.Equal(t, "0xwallet", report.WalletAddress)
	assert.Equal(t, 3, report.TotalTransactionCount)
	assert.Equal(t, 1, report.EstimatedSwapCount)
	assert.Len(t, report.Balances, 3)
	assert.Len(t, report.Transfers, 3)
	assert.True(t, report.TotalVolumeUsd.Equal(decimal.RequireFromString("15.5")), "got %s", report.TotalVolumeUsd)
	assert.True(t, report.TotalBalanceUsd.Equal(decimal.RequireFromString("3029.75")), "got %s", report.TotalBalanceUsd)
}

func TestAnalyzeFailsWhenAPipelineFails(t *testing.T) {
	balances, transfers := testAnalyzerFixtures()
	balances.err = errors.New("balances down")
	analyzer := NewWalletAnalyzer(balances, transfers, NewSwapDetector(DefaultDEXContracts), zap.NewNop())

	_, err := analyzer.Analyze(context.Background(), "0xwallet", 100)
	require.Error(t, err)

	balances.err = nil
	transfers.err = errors.New("transfers down")
	_, err = analyzer.Analyze(context.Background(), "0xwallet", 100)
	require.Error(t, err)
}

func TestAnalyzeAndExportWritesJSON(t *testing.T) {
	balances, transfers := testAnalyzerFixtures()
	analyzer := NewWalletAnalyzer(balances, transfers, NewSwapDetector(DefaultDEXContracts), zap.NewNop())

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, analyzer.AnalyzeAndExport(context.Background(), "0xwallet", 100, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report entity.WalletAnalysisReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "0xwallet", report.WalletAddress)
	assert.Equal(t, 1, report.EstimatedSwapCount)
	assert.Len(t, report.Balances, 3)
}

func TestAnalyzeAndExportBadPathFails(t *testing.T) {
	balances, transfers := testAnalyzerFixtures()
	analyzer := NewWalletAnalyzer(balances, transfers, NewSwapDetector(DefaultDEXContracts), zap.NewNop())

	err := analyzer.AnalyzeAndExport(context.Background(), "0xwallet", 100, filepath.Join(t.TempDir(), "missing", "report.json"))
	require.Error(t, err)
}
