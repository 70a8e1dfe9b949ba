package service

import (
	"strings"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
)

// DefaultDEXContracts lists the router and factory contracts of the major
// Ethereum mainnet DEXes. A transfer touching any of them counts as a swap.
var DefaultDEXContracts = []string{
	"0x5c69bee701ef814a2b6a3edd4b1652cb9cc5aa6f", // Uniswap V2 factory
	"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f", // SushiSwap router
	"0x1111111254eeb25477b68fb85ed929f73a960582", // 1inch v5 router
	"0xe592427a0aece92de3edee1f18e0157c05861564", // Uniswap V3 router
	"0xdef1c0ded9bec7f1a1670819833240f027b25eff", // 0x exchange proxy
	"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45", // Uniswap SwapRouter02
	"0x7a250d5630b4cf539739df2c5dacabf31d1c8ed8", // Uniswap V2 router
}

// swapDetectorImpl is the implementation of port.SwapDetector. Matching is a
// lowercase set lookup over the transfer's contract, sender and recipient.
type swapDetectorImpl struct {
	contracts map[string]struct{}
}

// NewSwapDetector creates a new instance of swapDetectorImpl over the given
// contract addresses. Pass DefaultDEXContracts for the stock mainnet set.
func NewSwapDetector(contracts []string) port.SwapDetector {
	set := make(map[string]struct{}, len(contracts))
	for _, addr := range contracts {
		set[strings.ToLower(addr)] = struct{}{}
	}
	return &swapDetectorImpl{contracts: set}
}

// IsSwap implements the port.SwapDetector interface.
func (d *swapDetectorImpl) IsSwap(transfer *entity.HistoricalTransfer) bool {
	if transfer == nil {
		return false
	}
	return d.matches(transfer.RawContractAddress) ||
		d.matches(transfer.From) ||
		d.matches(transfer.To)
}

func (d *swapDetectorImpl) matches(address string) bool {
	if address == "" {
		return false
	}
	_, ok := d.contracts[strings.ToLower(address)]
	return ok
}
