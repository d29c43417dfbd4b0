package wallet

import "math/big"

// Network identifies the chain the wallet is connected to.
type Network struct {
	Name    string
	ChainID *big.Int
}

// chain ids with their conventional wallet-facing names
var networkNames = map[uint64]string{
	1:        "mainnet",
	5:        "goerli",
	10:       "optimism",
	56:       "bnb",
	97:       "bnbt",
	100:      "xdai",
	137:      "matic",
	250:      "fantom",
	324:      "zksync",
	8453:     "base",
	17000:    "holesky",
	42161:    "arbitrum",
	43114:    "avalanche",
	59144:    "linea",
	80002:    "matic-amoy",
	84532:    "base-sepolia",
	421614:   "arbitrum-sepolia",
	560048:   "hoodi",
	11155111: "sepolia",
	11155420: "optimism-sepolia",
}

// NetworkName maps a chain id to its well-known name, or "unknown".
func NetworkName(chainID *big.Int) string {
	if chainID == nil || !chainID.IsUint64() {
		return "unknown"
	}
	if name, ok := networkNames[chainID.Uint64()]; ok {
		return name
	}
	return "unknown"
}

// Explorer returns the block explorer base URL for the chain, if known.
func Explorer(chainID *big.Int) string {
	switch NetworkName(chainID) {
	case "mainnet":
		return "https://etherscan.io"
	case "sepolia":
		return "https://sepolia.etherscan.io"
	case "holesky":
		return "https://holesky.etherscan.io"
	case "optimism":
		return "https://optimistic.etherscan.io"
	case "arbitrum":
		return "https://arbiscan.io"
	case "base":
		return "https://basescan.org"
	case "matic":
		return "https://polygonscan.com"
	}
	return ""
}
