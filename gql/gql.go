// Package gql is the gateway to the Radio France GraphQL API. It executes
// the fixed query documents from queries.go and hands the raw decoded
// response tree to the normalization layer; it never interprets payloads
// beyond telling configuration, transport and remote failures apart.
package gql

import (
	"context"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/config"
)

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	// KindConfiguration means the credential is missing; no network call
	// was attempted.
	KindConfiguration ErrorKind = "configuration"
	// KindTransport covers network, DNS and timeout failures.
	KindTransport ErrorKind = "transport"
	// KindRemote means the API answered with a well-formed error payload.
	KindRemote ErrorKind = "remote"
)

// Error is the only error type the gateway returns.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// MissingAPIKeyMessage is returned by every API-backed call when no
// credential is configured.
const MissingAPIKeyMessage = "API key not set. Please configure RADIOFRANCE_API_KEY in your environment."

// Executor runs one structured query and returns the raw response tree.
// Absence of an expected top-level key in the tree is data, not an error;
// callers treat it as "not found".
type Executor interface {
	Execute(ctx context.Context, document string, vars map[string]interface{}) (map[string]interface{}, error)
}

// Client implements Executor over the machinebox GraphQL client.
type Client struct {
	cfg    config.Config
	gql    *graphql.Client
	logger *zap.Logger
}

// NewClient builds a gateway for the configured endpoint. A nil httpClient
// falls back to http.DefaultClient, a nil logger to zap.NewNop.
func NewClient(cfg config.Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		gql:    graphql.NewClient(cfg.APIEndpoint, graphql.WithHTTPClient(httpClient)),
		logger: logger,
	}
}

// Execute runs one query document against the API. The credential check
// happens before any I/O so a missing key never costs a round trip.
func (c *Client) Execute(ctx context.Context, document string, vars map[string]interface{}) (map[string]interface{}, error) {
	if !c.cfg.HasAPIKey() {
		return nil, &Error{Kind: KindConfiguration, Message: MissingAPIKeyMessage}
	}

	req := graphql.NewRequest(document)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set("x-token", c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	var resp map[string]interface{}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		kind := classify(err)
		c.logger.Debug("graphql query failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, &Error{Kind: kind, Message: err.Error()}
	}
	return resp, nil
}

// classify tells remote error payloads apart from transport failures. The
// machinebox client surfaces server-side errors with a "graphql:" prefix
// and wraps everything else from the round trip.
func classify(err error) ErrorKind {
	if strings.Contains(err.Error(), "graphql:") {
		return KindRemote
	}
	return KindTransport
}
