package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// Address returns the signing account
func (c *Client) Address() (common.Address, error) {
	if c.key == nil {
		return common.Address{}, domain.ErrNoWallet
	}
	return crypto.PubkeyToAddress(c.key.PublicKey), nil
}

// SignMessage signs msg as an EIP-191 personal message. The recovery id is
// 27 or 28, as wallets return it.
func (c *Client) SignMessage(msg []byte) ([]byte, error) {
	if c.key == nil {
		return nil, domain.ErrNoWallet
	}
	sig, err := crypto.Sign(accounts.TextHash(msg), c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

var _ usecase.Wallet = (*Client)(nil)
