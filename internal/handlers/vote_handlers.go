package handlers

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/votechain/metavote/internal/address"
	"github.com/votechain/metavote/internal/metatx"
)

//go:generate mockgen -destination=../mocks/mock_handlers.go -package=mocks github.com/votechain/metavote/internal/handlers VoteSubmitter,TallyReader

// maxTallyOptions bounds the view calls one tally request may trigger.
const maxTallyOptions = 32

// VoteSubmitter casts a vote through the meta-transaction pipeline.
type VoteSubmitter interface {
	Submit(ctx context.Context, topicID, option string) (*metatx.RelayOutcome, error)
}

// TallyReader reads per-option vote counts from the voting contract.
type TallyReader interface {
	Tally(ctx context.Context, voting common.Address, topicID string, options []string) (map[string]*big.Int, error)
}

// VoteHandler serves the vote endpoints.
type VoteHandler struct {
	submitter VoteSubmitter
	tally     TallyReader
	resolver  address.Resolver
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(submitter VoteSubmitter, tally TallyReader, resolver address.Resolver) *VoteHandler {
	return &VoteHandler{
		submitter: submitter,
		tally:     tally,
		resolver:  resolver,
	}
}

// CastVote relays a signed vote and answers 202 with the relay's transaction hash.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	outcome, err := h.submitter.Submit(c.Request.Context(), req.TopicID, req.Option)
	if err != nil {
		handleSubmissionError(c, err, "submit vote")
		return
	}

	sendSuccess(c, http.StatusAccepted, CastVoteResponse{
		Object:          "vote",
		TopicID:         req.TopicID,
		Option:          req.Option,
		TransactionHash: outcome.TransactionHash,
		Status:          outcome.Status,
	})
}

// GetTally returns the counts of ?options=a,b on ?topic_id.
func (h *VoteHandler) GetTally(c *gin.Context) {
	topicID := c.Query("topic_id")
	if topicID == "" {
		sendError(c, http.StatusBadRequest, "topic_id is required", nil)
		return
	}

	options := parseOptions(c.QueryArray("options"))
	if len(options) == 0 {
		sendError(c, http.StatusBadRequest, "options is required", nil)
		return
	}
	if len(options) > maxTallyOptions {
		sendError(c, http.StatusBadRequest, "too many options", nil)
		return
	}

	addrs, err := h.resolver.Resolve(c.Request.Context())
	if err != nil {
		handleSubmissionError(c, err, "resolve addresses")
		return
	}

	counts, err := h.tally.Tally(c.Request.Context(), addrs.VotingContract, topicID, options)
	if err != nil {
		handleSubmissionError(c, err, "read tally")
		return
	}

	votes := make(map[string]string, len(counts))
	for option, count := range counts {
		votes[option] = count.String()
	}
	sendSuccess(c, http.StatusOK, TallyResponse{
		Object:         "tally",
		TopicID:        topicID,
		VotingContract: addrs.VotingContract.Hex(),
		Votes:          votes,
	})
}

// GetAddresses returns the contracts votes are routed through.
func (h *VoteHandler) GetAddresses(c *gin.Context) {
	addrs, err := h.resolver.Resolve(c.Request.Context())
	if err != nil {
		handleSubmissionError(c, err, "resolve addresses")
		return
	}
	sendSuccess(c, http.StatusOK, AddressesResponse{
		VotingAddress:    addrs.VotingContract.Hex(),
		ForwarderAddress: addrs.Forwarder.Hex(),
	})
}

// parseOptions accepts repeated and comma separated values, dropping blanks
// and duplicates.
func parseOptions(raw []string) []string {
	seen := make(map[string]struct{})
	var options []string
	for _, value := range raw {
		for _, option := range strings.Split(value, ",") {
			option = strings.TrimSpace(option)
			if option == "" {
				continue
			}
			if _, ok := seen[option]; ok {
				continue
			}
			seen[option] = struct{}{}
			options = append(options, option)
		}
	}
	return options
}
