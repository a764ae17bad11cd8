package app

import (
	"log/slog"

	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/notify"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Codec         *actions.Codec
	Notifications *notify.Store
	Progress      usecase.ProgressSink

	// Use cases
	GetVerificationStatus *usecase.GetVerificationStatus
	VerifyAccount         *usecase.VerifyAccount
	UnverifyAccount       *usecase.UnverifyAccount
	ListPending           *usecase.ListPendingVerifications
	CreateProposal        *usecase.CreateProposal
	ShowProposal          *usecase.ShowProposal
	ListProposals         *usecase.ListProposals
	VoteProposal          *usecase.VoteProposal
	ClaimReward           *usecase.ClaimReward
	TreasuryOverview      *usecase.TreasuryOverview
	ShowConfig            *usecase.ShowConfig
	SetConfig             *usecase.SetConfig
	RemoveConfig          *usecase.RemoveConfig
	SetGitHubToken        *usecase.SetGitHubToken
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	codec *actions.Codec,
	notifications *notify.Store,
	progress usecase.ProgressSink,
	getVerificationStatus *usecase.GetVerificationStatus,
	verifyAccount *usecase.VerifyAccount,
	unverifyAccount *usecase.UnverifyAccount,
	listPending *usecase.ListPendingVerifications,
	createProposal *usecase.CreateProposal,
	showProposal *usecase.ShowProposal,
	listProposals *usecase.ListProposals,
	voteProposal *usecase.VoteProposal,
	claimReward *usecase.ClaimReward,
	treasuryOverview *usecase.TreasuryOverview,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	setGitHubToken *usecase.SetGitHubToken,
) (*App, error) {
	return &App{
		Config:                cfg,
		Log:                   log,
		Codec:                 codec,
		Notifications:         notifications,
		Progress:              progress,
		GetVerificationStatus: getVerificationStatus,
		VerifyAccount:         verifyAccount,
		UnverifyAccount:       unverifyAccount,
		ListPending:           listPending,
		CreateProposal:        createProposal,
		ShowProposal:          showProposal,
		ListProposals:         listProposals,
		VoteProposal:          voteProposal,
		ClaimReward:           claimReward,
		TreasuryOverview:      treasuryOverview,
		ShowConfig:            showConfig,
		SetConfig:             setConfig,
		RemoveConfig:          removeConfig,
		SetGitHubToken:        setGitHubToken,
	}, nil
}
