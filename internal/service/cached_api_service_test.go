package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rbbozkurt/eth-monitor/internal/config"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBalancesAPI struct {
	tokenCalls atomic.Int32
	ethCalls   atomic.Int32
	err        error
}

func (f *fakeBalancesAPI) GetTokenBalances(ctx context.Context, walletAddress string) (*entity.BalanceResponse, error) {
	f.tokenCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.BalanceResponse{Result: entity.BalanceResult{Address: walletAddress}}, nil
}

func (f *fakeBalancesAPI) GetEthBalance(ctx context.Context, walletAddress string) (*entity.EthBalanceResponse, error) {
	f.ethCalls.Add(1)
	return &entity.EthBalanceResponse{Result: "0x0"}, nil
}

type fakePricesAPI struct {
	byAddressCalls atomic.Int32
	bySymbolCalls  atomic.Int32
}

func (f *fakePricesAPI) GetUsdPrice(ctx context.Context, tokenAddress string) (*entity.TokenPriceResponse, error) {
	f.byAddressCalls.Add(1)
	return &entity.TokenPriceResponse{}, nil
}

func (f *fakePricesAPI) GetUsdPriceBySymbol(ctx context.Context, symbol string) (*entity.TokenPriceResponse, error) {
	f.bySymbolCalls.Add(1)
	return &entity.TokenPriceResponse{}, nil
}

type fakeTokenAPI struct {
	calls atomic.Int32
}

func (f *fakeTokenAPI) GetTokenMetadata(ctx context.Context, tokenAddress string) (*entity.TokenMetadataResponse, error) {
	f.calls.Add(1)
	return &entity.TokenMetadataResponse{}, nil
}

type fakeTransfersAPI struct {
	calls atomic.Int32
}

func (f *fakeTransfersAPI) GetTransfers(ctx context.Context, address string, maxCount int) (*entity.TransferResponse, error) {
	f.calls.Add(1)
	return &entity.TransferResponse{}, nil
}

func testCacheConfig() config.CacheConfig {
	profile := config.CacheProfile{MaxSize: 100, TTLSeconds: 60}
	return config.CacheConfig{
		Balances:       profile,
		EthBalance:     profile,
		Prices:         profile,
		Metadata:       profile,
		Transfers:      profile,
		ValuedBalances: profile,
	}
}

func TestBalancesServedFromCache(t *testing.T) {
	balances := &fakeBalancesAPI{}
	api := NewCachedApiService(balances, &fakePricesAPI{}, &fakeTokenAPI{}, &fakeTransfersAPI{}, testCacheConfig(), zap.NewNop())
	ctx := context.Background()

	_, err := api.GetTokenBalances(ctx, "0x1")
	require.NoError(t, err)
	_, err = api.GetTokenBalances(ctx, "0x1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), balances.tokenCalls.Load(), "second lookup should be a cache hit")

	_, err = api.GetTokenBalances(ctx, "0x2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), balances.tokenCalls.Load())
}

func TestPriceKeysByAddressAndSymbolAreDisjoint(t *testing.T) {
	prices := &fakePricesAPI{}
	api := NewCachedApiService(&fakeBalancesAPI{}, prices, &fakeTokenAPI{}, &fakeTransfersAPI{}, testCacheConfig(), zap.NewNop())
	ctx := context.Background()

	// Same logical token, looked up both ways: the shared price cache must
	// keep the two entries apart.
	_, err := api.GetUsdPrice(ctx, "ETH")
	require.NoError(t, err)
	_, err = api.GetUsdPriceBySymbol(ctx, "ETH")
	require.NoError(t, err)

	assert.Equal(t, int32(1), prices.byAddressCalls.Load())
	assert.Equal(t, int32(1), prices.bySymbolCalls.Load())

	_, err = api.GetUsdPriceBySymbol(ctx, "ETH")
	require.NoError(t, err)
	assert.Equal(t, int32(1), prices.bySymbolCalls.Load(), "symbol lookup should now be cached")
}

func TestTransferCacheKeyIncludesDepth(t *testing.T) {
	transfers := &fakeTransfersAPI{}
	api := NewCachedApiService(&fakeBalancesAPI{}, &fakePricesAPI{}, &fakeTokenAPI{}, transfers, testCacheConfig(), zap.NewNop())
	ctx := context.Background()

	_, err := api.GetTransfers(ctx, "0x1", 10)
	require.NoError(t, err)
	_, err = api.GetTransfers(ctx, "0x1", 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), transfers.calls.Load(), "different depths must not alias")

	_, err = api.GetTransfers(ctx, "0x1", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), transfers.calls.Load())
}

func TestUpstreamErrorIsNotCached(t *testing.T) {
	balances := &fakeBalancesAPI{err: errors.New("boom")}
	api := NewCachedApiService(balances, &fakePricesAPI{}, &fakeTokenAPI{}, &fakeTransfersAPI{}, testCacheConfig(), zap.NewNop())
	ctx := context.Background()

	_, err := api.GetTokenBalances(ctx, "0x1")
	require.Error(t, err)

	balances.err = nil
	_, err = api.GetTokenBalances(ctx, "0x1")
	require.NoError(t, err, "a failed load must be retried, not served from cache")
	assert.Equal(t, int32(2), balances.tokenCalls.Load())
}
