package usecase

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// resolveAccount picks the account to read for: an explicit address,
// then the configured account, then the wallet.
func resolveAccount(explicit common.Address, cfg *config.RuntimeConfig, wallet Wallet) (common.Address, error) {
	if explicit != (common.Address{}) {
		return explicit, nil
	}
	if cfg != nil && cfg.HasAccount() {
		return cfg.Account, nil
	}
	if wallet != nil {
		addr, err := wallet.Address()
		if err == nil {
			return addr, nil
		}
		if !errors.Is(err, domain.ErrNoWallet) {
			return common.Address{}, err
		}
	}
	return common.Address{}, domain.PreconditionError("resolve account", domain.ErrNoWallet)
}

// walletAddress returns the signing account, failing when there is none.
func walletAddress(op string, wallet Wallet) (common.Address, error) {
	if wallet == nil {
		return common.Address{}, domain.PreconditionError(op, domain.ErrNoWallet)
	}
	addr, err := wallet.Address()
	if err != nil {
		return common.Address{}, domain.PreconditionError(op, err)
	}
	return addr, nil
}

func unixSeconds(t time.Time) uint64 {
	now := t.Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}
