/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/registry"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// APIPath is the path prefix of collection commands.
const APIPath = "/api/json/v1"

// Client sends Data API commands over HTTPS.
type Client struct {
	http     *http.Client
	endpoint string
	token    string
	maxPages int
}

var _ datastore.Client = (*Client)(nil)

// NewClient creates a client for endpoint authenticating with token.
// maxPages caps the pages followed by a single find; 0 means unlimited.
func NewClient(httpClient *http.Client, endpoint, token string, maxPages int) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:     httpClient,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		maxPages: maxPages,
	}
}

// NewOpener returns an Opener building a Client from the credentials.
func NewOpener(cfg *config.Config) datastore.Opener {
	return func(ctx context.Context, creds validation.Credentials) (datastore.Client, error) {
		return NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, creds.Endpoint, creds.Token, cfg.DataAPI.MaxPages), nil
	}
}

func init() {
	registry.Register(config.BackendDataAPI, func(cfg *config.Config) (datastore.Opener, error) {
		return NewOpener(cfg), nil
	})
}

// Collection returns a handle on keyspace.name.
func (c *Client) Collection(keyspace, name string) datastore.Collection {
	return &Collection{client: c, keyspace: keyspace, name: name}
}

// Close releases idle connections.
func (c *Client) Close(ctx context.Context) error {
	c.http.CloseIdleConnections()
	return nil
}

type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

type response struct {
	Status map[string]any `json:"status"`
	Data   *struct {
		Document      map[string]any   `json:"document"`
		Documents     []map[string]any `json:"documents"`
		NextPageState *string          `json:"nextPageState"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

// command posts {"<name>": body} to the collection and decodes the reply.
func (c *Client) command(ctx context.Context, operation, keyspace, collection, name string, body map[string]any) (*response, error) {
	payload, err := json.Marshal(map[string]any{name: body})
	if err != nil {
		return nil, apperrors.NewDatabaseError(operation, fmt.Errorf("failed to encode %s command: %w", name, err))
	}

	url := fmt.Sprintf("%s%s/%s/%s", c.endpoint, APIPath, keyspace, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewDatabaseError(operation, err)
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewDatabaseError(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewDatabaseError(operation, fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.DatabaseError{
			Operation: operation,
			Code:      fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Cause:     errors.New(strings.TrimSpace(string(raw))),
		}
	}

	var out response
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, apperrors.NewDatabaseError(operation, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Errors) > 0 {
		e := out.Errors[0]
		return nil, &apperrors.DatabaseError{Operation: operation, Code: e.ErrorCode, Cause: errors.New(e.Message)}
	}
	return &out, nil
}
