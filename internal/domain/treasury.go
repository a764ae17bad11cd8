package domain

import (
	"math/big"
	"time"
)

// TransferCategory is the token standard of an asset transfer.
type TransferCategory string

const (
	CategoryExternal TransferCategory = "external"
	CategoryERC20    TransferCategory = "erc20"
	CategoryERC721   TransferCategory = "erc721"
	CategoryERC1155  TransferCategory = "erc1155"
)

// AllTransferCategories lists the categories queried by default.
func AllTransferCategories() []TransferCategory {
	return []TransferCategory{CategoryExternal, CategoryERC20, CategoryERC721, CategoryERC1155}
}

// TransferDirection selects deposits or withdrawals relative to the DAO.
type TransferDirection int

const (
	Deposits TransferDirection = iota
	Withdrawals
)

// Balance is the DAO's holding of one asset. Token is empty for the native coin.
type Balance struct {
	Token    string   `json:"token,omitempty"`
	Symbol   string   `json:"symbol"`
	Decimals uint8    `json:"decimals"`
	Amount   *big.Int `json:"amount"`
}

// Transfer is one asset transfer reported by the explorer API.
type Transfer struct {
	Hash      string           `json:"hash"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Asset     string           `json:"asset"`
	Value     string           `json:"value"`
	Category  TransferCategory `json:"category"`
	BlockNum  uint64           `json:"blockNum"`
	Timestamp time.Time        `json:"timestamp"`
}

// TransferQuery pages through transfers for an address.
type TransferQuery struct {
	Address    string
	Direction  TransferDirection
	Categories []TransferCategory
	PageKey    string
	MaxCount   int
}

// TransferPage is one page of results. NextPageKey is empty on the last page.
type TransferPage struct {
	Transfers   []Transfer
	NextPageKey string
}
