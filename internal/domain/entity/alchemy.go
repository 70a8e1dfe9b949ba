package entity

// Raw response shapes returned by the Alchemy APIs. Fields mirror the wire
// format; anything the monitor does not consume is simply not mapped.

// BalanceResponse is the JSON-RPC envelope returned by alchemy_getTokenBalances.
type BalanceResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Result  BalanceResult `json:"result"`
}

// BalanceResult carries the per-contract token balances for one wallet.
type BalanceResult struct {
	Address       string            `json:"address"`
	TokenBalances []RawTokenBalance `json:"tokenBalances"`
}

// RawTokenBalance is a single contract balance as reported upstream.
// TokenBalance is an unsigned big integer encoded as 0x-prefixed hex; Error is
// non-empty when the provider could not read that contract.
type RawTokenBalance struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
	Error           string `json:"error,omitempty"`
}

// EthBalanceResponse is the JSON-RPC envelope returned by eth_getBalance.
// Result is the wei balance as a 0x-prefixed hex integer.
type EthBalanceResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Result  string `json:"result"`
}

// TokenMetadataResponse is the JSON-RPC envelope returned by
// alchemy_getTokenMetadata.
type TokenMetadataResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Result  TokenMetadata `json:"result"`
}

// TokenMetadata describes one ERC-20 contract. Immutable once fetched.
type TokenMetadata struct {
	Decimals int    `json:"decimals"`
	Logo     string `json:"logo"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

// TokenPriceResponse is returned by the Alchemy Prices API for both
// by-address and by-symbol lookups.
type TokenPriceResponse struct {
	Data []TokenPriceEntry `json:"data"`
}

// TokenPriceEntry holds the quotes for one token. A token may carry quotes in
// several currencies; the monitor only consumes the "usd" one.
type TokenPriceEntry struct {
	Network string           `json:"network,omitempty"`
	Address string           `json:"address,omitempty"`
	Symbol  string           `json:"symbol,omitempty"`
	Prices  []TokenPrice     `json:"prices"`
	Error   *TokenPriceError `json:"error,omitempty"`
}

// TokenPriceError is the per-entry error object of the Prices API.
type TokenPriceError struct {
	Message string `json:"message"`
}

// TokenPrice is a single currency quote.
type TokenPrice struct {
	Currency      string `json:"currency"`
	Value         string `json:"value"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// TransferResponse is the JSON-RPC envelope returned by
// alchemy_getAssetTransfers. The transfers client also uses it as the shape of
// a fully page-assembled result set.
type TransferResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int            `json:"id"`
	Result  TransferResult `json:"result"`
}

// TransferResult is one page of transfers plus the continuation cursor.
// An empty PageKey means there are no further pages.
type TransferResult struct {
	Transfers []RawTransfer `json:"transfers"`
	PageKey   string        `json:"pageKey,omitempty"`
}

// RawTransfer is a single asset transfer as reported upstream.
type RawTransfer struct {
	Asset       string            `json:"asset"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Category    string            `json:"category"`
	BlockNum    string            `json:"blockNum"`
	Hash        string            `json:"hash"`
	UniqueID    string            `json:"uniqueId"`
	Value       string            `json:"value"`
	TokenID     string            `json:"tokenId,omitempty"`
	RawContract *RawContract      `json:"rawContract,omitempty"`
	Metadata    *TransferMetadata `json:"metadata,omitempty"`
}

// RawContract carries contract-level details of a transfer, when present.
type RawContract struct {
	Value   string `json:"value"`
	Address string `json:"address"`
	Decimal string `json:"decimal"`
}

// TransferMetadata holds the block timestamp of a transfer in RFC 3339 form.
type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}
