package ballot

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractABI is the JSON ABI of the Voting contract.
const ContractABI = `[
{"inputs":[{"name":"_candidatesCount","type":"uint8"},{"name":"_msp","type":"address"},{"name":"_endBlock","type":"uint256"}],"stateMutability":"nonpayable","type":"constructor"},
{"inputs":[{"name":"_candidate","type":"uint256"}],"name":"vote","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[],"name":"votersCount","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"candidates","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"endBlock","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"name":"_voter","type":"address"}],"name":"choiceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"name":"_offset","type":"uint256"},{"name":"_limit","type":"uint256"}],"name":"getVoters","outputs":[{"name":"_voters","type":"address[]"},{"name":"_candidates","type":"uint256[]"},{"name":"_amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
{"inputs":[{"name":"_offset","type":"uint256"},{"name":"_limit","type":"uint256"},{"name":"_blockNumber","type":"uint256"}],"name":"getVotersAt","outputs":[{"name":"_voters","type":"address[]"},{"name":"_candidates","type":"uint256[]"},{"name":"_amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"getSummary","outputs":[{"name":"_candidates","type":"uint256[]"},{"name":"_amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
{"inputs":[{"name":"_token","type":"address"}],"name":"claimTokens","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"anonymous":false,"inputs":[{"indexed":true,"name":"_voter","type":"address"},{"indexed":false,"name":"_candidate","type":"uint256"}],"name":"Vote","type":"event"},
{"anonymous":false,"inputs":[{"indexed":true,"name":"_token","type":"address"},{"indexed":true,"name":"_controller","type":"address"},{"indexed":false,"name":"_amount","type":"uint256"}],"name":"ClaimedTokens","type":"event"}
]`

var (
	contractABI abi.ABI

	voteMethodID        []byte // vote(uint256)
	votersCountMethodID []byte // votersCount()
	candidatesMethodID  []byte // candidates()
	endBlockMethodID    []byte // endBlock()
	choiceOfMethodID    []byte // choiceOf(address)
	getVotersMethodID   []byte // getVoters(uint256,uint256)
	getVotersAtMethodID []byte // getVotersAt(uint256,uint256,uint256)
	getSummaryMethodID  []byte // getSummary()
	claimTokensMethodID []byte // claimTokens(address)
)

func init() {
	var err error
	contractABI, err = abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		panic(err)
	}

	for name, constID := range map[string]*[]byte{
		"vote":        &voteMethodID,
		"votersCount": &votersCountMethodID,
		"candidates":  &candidatesMethodID,
		"endBlock":    &endBlockMethodID,
		"choiceOf":    &choiceOfMethodID,
		"getVoters":   &getVotersMethodID,
		"getVotersAt": &getVotersAtMethodID,
		"getSummary":  &getSummaryMethodID,
		"claimTokens": &claimTokensMethodID,
	} {
		method, exist := contractABI.Methods[name]
		if !exist {
			panic("unknown Voting method " + name)
		}
		*constID = copyID(method.ID)
	}
}

// ABI returns the parsed contract ABI.
func ABI() abi.ABI {
	return contractABI
}

// MethodID returns the 4-byte selector of the named method, nil if unknown.
func MethodID(name string) []byte {
	method, ok := contractABI.Methods[name]
	if !ok {
		return nil
	}
	return copyID(method.ID)
}

func copyID(id []byte) []byte {
	out := make([]byte, len(id))
	copy(out, id)
	return out
}
