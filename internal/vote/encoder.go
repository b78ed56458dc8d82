// Package vote encodes calls to the voting contract.
package vote

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// VotingABI covers the voting contract functions this module calls.
const VotingABI = `[
	{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"topicId","type":"string"},{"name":"option","type":"string"}],"outputs":[]},
	{"type":"function","name":"getVotes","stateMutability":"view","inputs":[{"name":"topicId","type":"string"},{"name":"option","type":"string"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var votingABI = mustParseABI(VotingABI)

// Ballot is one vote: an option chosen within a topic.
type Ballot struct {
	TopicID string
	Option  string
}

// ABI returns the parsed voting contract ABI.
func ABI() abi.ABI {
	return votingABI
}

// Encode returns the call data for vote(topicId, option).
func Encode(topicID, option string) ([]byte, error) {
	data, err := votingABI.Pack("vote", topicID, option)
	if err != nil {
		return nil, fmt.Errorf("failed to pack vote call: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) (Ballot, error) {
	method := votingABI.Methods["vote"]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return Ballot{}, fmt.Errorf("call data is not a vote call")
	}
	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return Ballot{}, fmt.Errorf("failed to unpack vote call: %w", err)
	}
	if len(values) != 2 {
		return Ballot{}, fmt.Errorf("vote call has %d arguments, want 2", len(values))
	}
	topicID, ok := values[0].(string)
	if !ok {
		return Ballot{}, fmt.Errorf("topicId is %T, want string", values[0])
	}
	option, ok := values[1].(string)
	if !ok {
		return Ballot{}, fmt.Errorf("option is %T, want string", values[1])
	}
	return Ballot{TopicID: topicID, Option: option}, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("invalid ABI definition: " + err.Error())
	}
	return parsed
}
