package app

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/wire"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/notify"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ProvideRegistry registers every action kind against the configured DAO
func ProvideRegistry(
	cfg *config.RuntimeConfig,
	tokens actions.TokenMetadata,
	resolver actions.CommitResolver,
	params actions.ParameterSource,
) (*actions.Registry, error) {
	var governanceToken common.Address
	if cfg.DAO != nil {
		governanceToken = cfg.DAO.Token
	}
	nativeSymbol := "ETH"
	if cfg.Network != nil && cfg.Network.NativeSymbol != "" {
		nativeSymbol = cfg.Network.NativeSymbol
	}
	return actions.NewRegistry(
		actions.NewMintKind(governanceToken, tokens),
		actions.NewWithdrawKind(tokens, nativeSymbol),
		actions.NewChangeParamKind(params),
		actions.NewMergePRKind(resolver),
	)
}

// ProvideNotifications creates the notification store
func ProvideNotifications(cfg *config.RuntimeConfig) *notify.Store {
	return notify.NewStore(cfg.NotificationTimeout)
}

// ProvideClock returns the wall clock
func ProvideClock() usecase.Clock {
	return usecase.SystemClock{}
}

// CoreSet provides the action codec and shared services
var CoreSet = wire.NewSet(
	ProvideRegistry,
	actions.NewCodec,
	ProvideNotifications,
	wire.Bind(new(usecase.Notifier), new(*notify.Store)),
	ProvideClock,
)

// UseCaseSet provides every use case
var UseCaseSet = wire.NewSet(
	usecase.NewGetVerificationStatus,
	usecase.NewVerifyAccount,
	usecase.NewUnverifyAccount,
	usecase.NewListPendingVerifications,
	usecase.NewCreateProposal,
	usecase.NewShowProposal,
	usecase.NewListProposals,
	usecase.NewVoteProposal,
	usecase.NewClaimReward,
	usecase.NewTreasuryOverview,
	usecase.NewShowConfig,
	usecase.NewSetConfig,
	usecase.NewRemoveConfig,
	usecase.NewSetGitHubToken,
)
