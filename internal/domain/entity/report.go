package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// EthSymbol is the ticker used for native-coin price lookups.
	EthSymbol = "ETH"

	// EthContractSentinel marks the native-coin entry in a report. It is not a
	// valid ERC-20 deployment address, so it can never collide with a real
	// token contract.
	EthContractSentinel = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

	// EthDecimals is the wei-to-ether decimal shift.
	EthDecimals = 18
)

// TokenBalance is one valued asset position in a report: the balance in
// native token units and its USD value, both rounded to six fractional digits.
type TokenBalance struct {
	TokenSymbol     string          `json:"tokenSymbol"`
	ContractAddress string          `json:"contractAddress"`
	Balance         decimal.Decimal `json:"balance"`
	UsdValue        decimal.Decimal `json:"usdValue"`
}

// HistoricalTransfer is a normalized asset transfer. Timestamp is always set;
// transfers whose upstream timestamp is missing or unparsable never make it
// into a report.
type HistoricalTransfer struct {
	TxHash             string          `json:"txHash"`
	Timestamp          time.Time       `json:"timestamp"`
	From               string          `json:"from"`
	To                 string          `json:"to"`
	Asset              string          `json:"asset"`
	Value              decimal.Decimal `json:"value"`
	Category           string          `json:"category"`
	RawContractAddress string          `json:"rawContractAddress,omitempty"`
}

// WalletAnalysisReport is the consolidated result of one wallet analysis.
// It is built once per Analyze call and never mutated afterwards.
type WalletAnalysisReport struct {
	WalletAddress         string               `json:"walletAddress"`
	TotalTransactionCount int                  `json:"totalTransactionCount"`
	TotalVolumeUsd        decimal.Decimal      `json:"totalVolumeUsd"`
	EstimatedSwapCount    int                  `json:"estimatedSwapCount"`
	Balances              []TokenBalance       `json:"balances"`
	Transfers             []HistoricalTransfer `json:"transfers"`
	TotalBalanceUsd       decimal.Decimal      `json:"totalBalanceUsd"`
}
