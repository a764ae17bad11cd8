package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Subset of the DAO diamond facets govctl calls.
const governanceJSON = `[
  {"type":"function","name":"getStamps","stateMutability":"view",
   "inputs":[{"name":"_address","type":"address"}],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"providerId","type":"string"},
     {"name":"userHash","type":"bytes32"},
     {"name":"verifiedAt","type":"uint64[]"}]}]},
  {"type":"function","name":"getThresholdHistory","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"timestamp","type":"uint64"},
     {"name":"threshold","type":"uint64"}]}]},
  {"type":"function","name":"verifyAddress","stateMutability":"nonpayable",
   "inputs":[
     {"name":"_toVerify","type":"address"},
     {"name":"_userHash","type":"bytes32"},
     {"name":"_timestamp","type":"uint64"},
     {"name":"_providerId","type":"string"},
     {"name":"_proofSignature","type":"bytes"}],
   "outputs":[]},
  {"type":"function","name":"unverify","stateMutability":"nonpayable",
   "inputs":[{"name":"_providerId","type":"string"}],"outputs":[]},
  {"type":"function","name":"claimVerificationRewardAll","stateMutability":"nonpayable",
   "inputs":[],"outputs":[]},
  {"type":"function","name":"proposalCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getProposal","stateMutability":"view",
   "inputs":[{"name":"_proposalId","type":"uint256"}],
   "outputs":[
     {"name":"open","type":"bool"},
     {"name":"executed","type":"bool"},
     {"name":"parameters","type":"tuple","components":[
       {"name":"startDate","type":"uint64"},
       {"name":"endDate","type":"uint64"}]},
     {"name":"tally","type":"tuple","components":[
       {"name":"abstain","type":"uint256"},
       {"name":"yes","type":"uint256"},
       {"name":"no","type":"uint256"}]},
     {"name":"actions","type":"tuple[]","components":[
       {"name":"to","type":"address"},
       {"name":"value","type":"uint256"},
       {"name":"data","type":"bytes"}]},
     {"name":"metadata","type":"bytes"}]},
  {"type":"function","name":"createProposal","stateMutability":"nonpayable",
   "inputs":[
     {"name":"_metadata","type":"bytes"},
     {"name":"_actions","type":"tuple[]","components":[
       {"name":"to","type":"address"},
       {"name":"value","type":"uint256"},
       {"name":"data","type":"bytes"}]},
     {"name":"_allowFailureMap","type":"uint256"},
     {"name":"_startDate","type":"uint64"},
     {"name":"_endDate","type":"uint64"}],
   "outputs":[{"name":"proposalId","type":"uint256"}]},
  {"type":"function","name":"vote","stateMutability":"nonpayable",
   "inputs":[
     {"name":"_proposalId","type":"uint256"},
     {"name":"_voteOption","type":"uint8"}],
   "outputs":[]}
]`

const erc20JSON = `[
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	governanceABI = mustParseABI(governanceJSON)
	erc20ABI      = mustParseABI(erc20JSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Go shapes of the tuple outputs, matched to ABI components by field name.

type stampOut struct {
	ProviderId string
	UserHash   [32]byte
	VerifiedAt []uint64
}

type thresholdOut struct {
	Timestamp uint64
	Threshold uint64
}

type proposalParamsOut struct {
	StartDate uint64
	EndDate   uint64
}

type tallyOut struct {
	Abstain *big.Int
	Yes     *big.Int
	No      *big.Int
}

type actionTuple struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}
