package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/adapters/chain"
	"github.com/trebuchet-org/govctl/internal/adapters/explorer"
	"github.com/trebuchet-org/govctl/internal/adapters/fs"
	"github.com/trebuchet-org/govctl/internal/adapters/github"
	"github.com/trebuchet-org/govctl/internal/adapters/interactive"
	"github.com/trebuchet-org/govctl/internal/adapters/parameters"
	"github.com/trebuchet-org/govctl/internal/adapters/verifyapi"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ChainSet provides the JSON-RPC governance client
var ChainSet = wire.NewSet(
	chain.ProvideClient,
	wire.Bind(new(usecase.GovernanceReader), new(*chain.Client)),
	wire.Bind(new(usecase.GovernanceWriter), new(*chain.Client)),
	wire.Bind(new(usecase.Wallet), new(*chain.Client)),
	wire.Bind(new(actions.TokenMetadata), new(*chain.Client)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	fs.NewPendingStoreAdapter,
	wire.Bind(new(usecase.PendingStore), new(*fs.PendingStoreAdapter)),

	fs.NewTokenStoreAdapter,
	wire.Bind(new(usecase.TokenStore), new(*fs.TokenStoreAdapter)),
)

// RemoteSet provides HTTP and git backed services
var RemoteSet = wire.NewSet(
	verifyapi.ProvideClient,
	wire.Bind(new(usecase.VerifyAPI), new(*verifyapi.Client)),

	explorer.ProvideClient,
	wire.Bind(new(usecase.TransferHistory), new(*explorer.Client)),

	github.NewCommitResolver,
	wire.Bind(new(actions.CommitResolver), new(*github.CommitResolver)),
)

// ActionSourcesSet provides what action kinds need besides the chain
var ActionSourcesSet = wire.NewSet(
	parameters.ProvideConfigSource,
	wire.Bind(new(actions.ParameterSource), new(*parameters.ConfigSource)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.ProviderSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ChainSet,
	FSSet,
	RemoteSet,
	ActionSourcesSet,
	InteractiveSet,
)
