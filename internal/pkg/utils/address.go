package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s is a well-formed 0x-prefixed 20-byte
// Ethereum address. common.IsHexAddress alone also accepts the unprefixed
// form, which the upstream APIs reject.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}
