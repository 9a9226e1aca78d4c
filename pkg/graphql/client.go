package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

const (
	defaultTimeout               = 10 * time.Second
	errorBodyReadLimit     int64 = 1024
	contentTypeHeader            = "Content-Type"
	contentTypeApplication       = "application/json"
)

var errEndpointRequired = errors.New("graphql endpoint URL is required")

// Client issues GraphQL operations against a single endpoint over HTTP POST.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Tests use this to swap
// in a fake transport; nothing else about the client changes.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout. Ignored when a custom
// HTTP client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a GraphQL client for the given endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errEndpointRequired
	}

	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// Endpoint reports the configured endpoint URL.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// Request is the JSON body of a GraphQL HTTP request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// ResponseError is a single entry of the GraphQL errors array.
type ResponseError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

func (e ResponseError) Error() string {
	return e.Message
}

// Do executes the operation and unmarshals the response's data field into
// dest. GraphQL-level errors, transport failures, and non-2xx statuses all
// come back as coded errors; dest is only written on a clean response.
func (c *Client) Do(ctx context.Context, req Request, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "graphql client not configured")
	}
	if strings.TrimSpace(req.Query) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "graphql query is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal graphql request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build graphql request")
	}
	httpReq.Header.Set(contentTypeHeader, contentTypeApplication)
	httpReq.Header.Set("Accept", contentTypeApplication)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute graphql request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"graphql request failed",
		)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []ResponseError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBadUpstream, err, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, respErr := range envelope.Errors {
			messages = append(messages, respErr.Message)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, "graphql operation returned errors").
			WithDetails(map[string]any{"errors": messages})
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return pkgerrors.New(pkgerrors.CodeBadUpstream, "graphql response missing data")
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBadUpstream, err, "unmarshal graphql data")
	}
	return nil
}
