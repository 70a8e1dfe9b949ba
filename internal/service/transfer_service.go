package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/config"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
	"github.com/rbbozkurt/eth-monitor/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// transferServiceImpl is the implementation of port.TransferService.
type transferServiceImpl struct {
	api           port.ApiService
	maxConcurrent int
	logger        *zap.Logger
}

// NewTransferService creates a new instance of transferServiceImpl.
func NewTransferService(api port.ApiService, enrichCfg config.EnrichmentConfig, logger *zap.Logger) port.TransferService {
	return &transferServiceImpl{
		api:           api,
		maxConcurrent: enrichCfg.MaxConcurrentTasks,
		logger:        logger.Named("TransferService"),
	}
}

// GetHistoricalTransfers implements the port.TransferService interface.
// Transfers are converted concurrently; the result keeps upstream order, with
// unconvertible items removed rather than zero-filled.
func (s *transferServiceImpl) GetHistoricalTransfers(ctx context.Context, walletAddress string, maxCount int) ([]entity.HistoricalTransfer, error) {
	resp, err := s.api.GetTransfers(ctx, walletAddress, maxCount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfers for %s: %w", walletAddress, err)
	}

	raw := resp.Result.Transfers
	results := make([]*entity.HistoricalTransfer, len(raw))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrent)
	for i, rt := range raw {
		eg.Go(func() error {
			ht, err := convertTransfer(rt)
			if err != nil {
				metrics.EnrichmentDroppedTotal.WithLabelValues("transfers", "error").Inc()
				s.logger.Warn("Dropping unconvertible transfer",
					zap.String("hash", rt.Hash), zap.Error(err))
				return nil
			}
			results[i] = ht
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to convert transfers for %s: %w", walletAddress, err)
	}

	transfers := make([]entity.HistoricalTransfer, 0, len(results))
	for _, ht := range results {
		if ht != nil {
			transfers = append(transfers, *ht)
		}
	}

	s.logger.Info("Historized transfers",
		zap.String("address", walletAddress),
		zap.Int("fetched", len(raw)),
		zap.Int("converted", len(transfers)))
	return transfers, nil
}

// convertTransfer normalizes one raw transfer. A missing or unparsable block
// timestamp is an error; a missing value field means zero (NFT transfers carry
// no decimal value).
func convertTransfer(rt entity.RawTransfer) (*entity.HistoricalTransfer, error) {
	if rt.Metadata == nil || rt.Metadata.BlockTimestamp == "" {
		return nil, fmt.Errorf("transfer %s has no block timestamp", rt.Hash)
	}
	timestamp, err := time.Parse(time.RFC3339, rt.Metadata.BlockTimestamp)
	if err != nil {
		return nil, fmt.Errorf("bad block timestamp on transfer %s: %w", rt.Hash, err)
	}

	value := decimal.Zero
	if rt.Value != "" {
		value, err = decimal.NewFromString(rt.Value)
		if err != nil {
			return nil, fmt.Errorf("bad value on transfer %s: %w", rt.Hash, err)
		}
	}

	ht := &entity.HistoricalTransfer{
		TxHash:    rt.Hash,
		Timestamp: timestamp,
		From:      rt.From,
		To:        rt.To,
		Asset:     rt.Asset,
		Value:     value,
		Category:  rt.Category,
	}
	if rt.RawContract != nil {
		ht.RawContractAddress = rt.RawContract.Address
	}
	return ht, nil
}
