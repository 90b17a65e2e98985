// Package tokens is the single source of truth for well-known token
// metadata. The spend tracker uses it to price stablecoin trades when the
// caller does not supply an explicit USD amount.
package tokens

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Info describes a known token.
type Info struct {
	Symbol     string
	Decimals   int
	Stablecoin bool
}

// Well-known token addresses, keyed by lowercase 0x-prefixed address.
// Covers Ethereum mainnet, Arbitrum, Optimism, and Base.
var known = map[string]Info{
	// Ethereum mainnet
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {Symbol: "USDC", Decimals: 6, Stablecoin: true},
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {Symbol: "USDT", Decimals: 6, Stablecoin: true},
	"0x6b175474e89094c44da98b954eedeac495271d0f": {Symbol: "DAI", Decimals: 18, Stablecoin: true},
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {Symbol: "WETH", Decimals: 18},
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": {Symbol: "WBTC", Decimals: 8},

	// Arbitrum
	"0xaf88d065e77c8cc2239327c5edb3a432268e5831": {Symbol: "USDC", Decimals: 6, Stablecoin: true},
	"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8": {Symbol: "USDC.e", Decimals: 6, Stablecoin: true},
	"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9": {Symbol: "USDT", Decimals: 6, Stablecoin: true},
	"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1": {Symbol: "DAI", Decimals: 18, Stablecoin: true},
	"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": {Symbol: "WETH", Decimals: 18},

	// Optimism
	"0x0b2c639c533813f4aa9d7837caf62653d097ff85": {Symbol: "USDC", Decimals: 6, Stablecoin: true},
	"0x7f5c764cbc14f9669b88837ca1490cca17c31607": {Symbol: "USDC.e", Decimals: 6, Stablecoin: true},
	"0x94b008aa00579c1307b0ef2c499ad98a8ce58e58": {Symbol: "USDT", Decimals: 6, Stablecoin: true},
	"0x4200000000000000000000000000000000000006": {Symbol: "WETH", Decimals: 18},

	// Base
	"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": {Symbol: "USDC", Decimals: 6, Stablecoin: true},
	"0x50c5725949a6f0c72e6c4a641f24049a917db0cb": {Symbol: "DAI", Decimals: 18, Stablecoin: true},

	// Native ETH, both placeholder conventions
	"0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee": {Symbol: "ETH", Decimals: 18},
	"0x0000000000000000000000000000000000000000": {Symbol: "ETH", Decimals: 18},
}

// Lookup returns metadata for a token address. Matching is case-insensitive
// and tolerates a missing 0x prefix.
func Lookup(address string) (Info, bool) {
	addr := strings.ToLower(address)
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}
	info, ok := known[addr]
	return info, ok
}

// USDValue prices a raw integer token amount in USD. Only stablecoins can be
// priced without an oracle: the value is amount / 10^decimals at 1:1. For
// unknown tokens or non-stablecoins it returns ok=false and the caller's
// configured unpriced-trade policy decides.
func USDValue(address, rawAmount string) (decimal.Decimal, bool) {
	info, ok := Lookup(address)
	if !ok || !info.Stablecoin {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}

	return amount.Shift(int32(-info.Decimals)), true
}
