// Package relay submits signed forward requests to the relay service.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	httpclient "github.com/votechain/metavote/internal/client/http"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/metatx"
	"go.uber.org/zap"
)

const relayPath = "/relay"

// DefaultTimeout bounds one relay submission when none is configured.
const DefaultTimeout = 30 * time.Second

// ForwardRequestPayload is the request as the relay expects it. Integer
// fields are decimal strings so uint256 values survive JSON intact.
type ForwardRequestPayload struct {
	From     string `json:"from_ad"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
	Nonce    string `json:"nonce"`
	Data     string `json:"data"`
}

// Payload is the body of POST /relay.
type Payload struct {
	Request   ForwardRequestPayload `json:"request"`
	Signature string                `json:"signature"`
}

type relayResponse struct {
	TxHash string `json:"tx_hash"`
}

type errorResponse struct {
	Message json.RawMessage `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
}

// Client talks to one relay endpoint. Each Submit is exactly one attempt.
type Client struct {
	http     *httpclient.HTTPClient
	gasPrice *big.Int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient creates a relay client. gasPrice is the advisory price sent
// alongside every request.
func NewClient(client *httpclient.HTTPClient, gasPrice *big.Int, timeout time.Duration) *Client {
	if gasPrice == nil {
		gasPrice, _ = new(big.Int).SetString(constants.DefaultGasPriceWei, 10)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:     client,
		gasPrice: new(big.Int).Set(gasPrice),
		timeout:  timeout,
		logger:   logger.Log,
	}
}

// BuildPayload converts a signed envelope into the relay wire format.
func BuildPayload(env *metatx.SignedEnvelope, gasPrice *big.Int) Payload {
	req := env.Request()
	return Payload{
		Request: ForwardRequestPayload{
			From:     req.From.Hex(),
			To:       req.To.Hex(),
			Value:    req.Value.String(),
			Gas:      req.Gas.String(),
			GasPrice: gasPrice.String(),
			Nonce:    req.Nonce.String(),
			Data:     hexutil.Encode(req.Data),
		},
		Signature: hexutil.Encode(env.Signature()),
	}
}

// Submit posts env to the relay and interprets the answer.
func (c *Client) Submit(ctx context.Context, env *metatx.SignedEnvelope) (*metatx.RelayOutcome, error) {
	if env == nil {
		return nil, &metatx.InvalidRequestError{Field: "envelope", Reason: "missing"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := BuildPayload(env, c.gasPrice)
	endpoint := c.http.GetBaseURL() + relayPath

	resp, err := c.http.Post(ctx, relayPath, payload)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if resp != nil {
				resp.Body.Close()
			}
			rejected := &metatx.RelayRejectedError{
				StatusCode: httpErr.StatusCode,
				Message:    errorMessage(httpErr.Body),
				Body:       httpErr.Body,
			}
			c.logger.Warn("Relay rejected request",
				zap.String("sender", payload.Request.From),
				zap.String("nonce", payload.Request.Nonce),
				zap.Int("status", rejected.StatusCode),
				zap.String("message", rejected.Message),
			)
			return nil, rejected
		}
		return nil, &metatx.RelayUnreachableError{URL: endpoint, Err: err}
	}

	var body relayResponse
	if err := c.http.ProcessJSONResponse(resp, &body); err != nil {
		return nil, &metatx.RelayRejectedError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("undecodable relay response: %v", err),
		}
	}
	if body.TxHash == "" {
		return nil, &metatx.RelayRejectedError{
			StatusCode: resp.StatusCode,
			Message:    "relay response carries no tx_hash",
		}
	}

	c.logger.Info("Relay accepted request",
		zap.String("sender", payload.Request.From),
		zap.String("nonce", payload.Request.Nonce),
		zap.String("tx_hash", body.TxHash),
	)

	return &metatx.RelayOutcome{
		TransactionHash: body.TxHash,
		Status:          constants.PendingStatus,
	}, nil
}

// errorMessage pulls a human readable reason out of a relay error body.
// Non-string detail values (validation error lists) are returned raw.
func errorMessage(body string) string {
	var parsed errorResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return strings.TrimSpace(body)
	}
	for _, raw := range []json.RawMessage{parsed.Message, parsed.Detail, parsed.Error} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	return ""
}
