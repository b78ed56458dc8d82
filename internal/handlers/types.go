package handlers

// CastVoteRequest is the body of POST /api/v1/votes.
type CastVoteRequest struct {
	TopicID string `json:"topic_id" binding:"required"`
	Option  string `json:"option" binding:"required"`
}

// CastVoteResponse acknowledges a relayed vote. Status is "pending": the
// transaction may still fail on-chain.
type CastVoteResponse struct {
	Object          string `json:"object"`
	TopicID         string `json:"topic_id"`
	Option          string `json:"option"`
	TransactionHash string `json:"tx_hash"`
	Status          string `json:"status"`
}

// TallyResponse carries per-option vote counts as decimal strings.
type TallyResponse struct {
	Object         string            `json:"object"`
	TopicID        string            `json:"topic_id"`
	VotingContract string            `json:"voting_contract"`
	Votes          map[string]string `json:"votes"`
}

// AddressesResponse uses the key spelling of the discovery endpoint.
type AddressesResponse struct {
	VotingAddress    string `json:"VOTING_ADDRESS"`
	ForwarderAddress string `json:"FORWARDER_ADDRESS"`
}
