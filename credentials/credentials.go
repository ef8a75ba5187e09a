/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package credentials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/validation"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

// Name is the credential type name the node requests from the host.
const Name = "astraDbApi"

// Test result statuses
const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Description returns the credential type schema. adminEndpoint is the URL the
// host calls to test a credential.
func Description(adminEndpoint string) workflow.CredentialDescription {
	if adminEndpoint == "" {
		adminEndpoint = config.DefaultAdminEndpoint
	}
	return workflow.CredentialDescription{
		Name:             Name,
		DisplayName:      "Astra DB API",
		DocumentationURL: "https://docs.datastax.com/en/astra-db-serverless/api-reference/dataapiclient.html",
		Properties: []workflow.Property{
			{
				DisplayName: "API Endpoint",
				Name:        "endpoint",
				Type:        workflow.TypeString,
				Default:     "",
				Required:    true,
				Placeholder: "https://<database-id>-<region>.apps.astra.datastax.com",
				Description: "The Data API endpoint of the database",
			},
			{
				DisplayName: "Application Token",
				Name:        "token",
				Type:        workflow.TypeString,
				Default:     "",
				Required:    true,
				TypeOptions: map[string]any{"password": true},
				Description: "Application token with access to the database",
			},
		},
		Test: &workflow.TestRequest{
			Method:  http.MethodGet,
			URL:     adminEndpoint,
			Headers: map[string]string{"Authorization": "Bearer {{$credentials.token}}"},
		},
	}
}

// Result is the outcome of a credential test.
type Result struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	CheckedAt strfmt.DateTime `json:"checkedAt"`
}

// OK reports whether the test succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Tester checks credentials against the administrative endpoint.
type Tester struct {
	http     *http.Client
	endpoint string
	now      func() time.Time
}

// NewTester creates a tester. A nil client uses a client with the configured timeout.
func NewTester(httpClient *http.Client, cfg *config.Config) *Tester {
	if cfg == nil {
		cfg = config.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Tester{http: httpClient, endpoint: cfg.AdminEndpoint, now: time.Now}
}

// Test validates raw and calls the administrative endpoint with the token as a
// bearer secret. Malformed credentials return an error; a rejected or unreachable
// endpoint returns a Result with StatusError.
func (t *Tester) Test(ctx context.Context, raw map[string]any) (Result, error) {
	creds, err := validation.ValidateCredentials(raw)
	if err != nil {
		return Result{}, err
	}

	result := Result{CheckedAt: strfmt.DateTime(t.now().UTC())}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build credential test request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("connection failed: %v", err)
		return result, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Status = StatusError
		result.Message = fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return result, nil
	}
	result.Status = StatusOK
	result.Message = "Connection successful"
	return result, nil
}
