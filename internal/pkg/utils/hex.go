package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseHexBig decodes a 0x-prefixed hexadecimal unsigned integer. Unlike
// hexutil.DecodeBig it accepts the zero-padded 32-byte words the Alchemy
// balance APIs return (e.g. "0x0000...f4240").
func ParseHexBig(s string) (*big.Int, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("hex value %q is missing the 0x prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		return nil, fmt.Errorf("hex value %q has no digits", s)
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("hex value %q is not a valid hexadecimal integer", s)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("hex value %q is negative", s)
	}
	return n, nil
}
