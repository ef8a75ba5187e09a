/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	"github.com/msmygit/n8n-nodes-astradb/registry"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// API is the subset of the DynamoDB client used by the backend.
type API interface {
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// Client stores every collection in one DynamoDB table.
type Client struct {
	api       API
	tableName string
	paging    storagemodels.PageOptions
}

var _ datastore.Client = (*Client)(nil)

// NewClient wraps api for the given table.
func NewClient(api API, tableName string, opts ...storagemodels.PageOption) *Client {
	paging := storagemodels.DefaultPageOptions()
	for _, opt := range opts {
		opt(&paging)
	}
	return &Client{api: api, tableName: tableName, paging: paging}
}

// NewDynamoDBClient initializes a DynamoDB SDK client. The credential endpoint becomes
// the service base endpoint; a token of the form "ACCESS_KEY:SECRET_KEY" selects static
// credentials, otherwise the default AWS credential chain is used.
func NewDynamoDBClient(ctx context.Context, region string, creds validation.Credentials) (*sdk.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey, secretKey, ok := strings.Cut(creds.Token, ":"); ok && accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	endpoint := creds.Endpoint
	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	}), nil
}

// NewOpener returns a datastore.Opener connecting to the configured table.
func NewOpener(cfg config.DynamoDBConfig) datastore.Opener {
	return func(ctx context.Context, creds validation.Credentials) (datastore.Client, error) {
		api, err := NewDynamoDBClient(ctx, cfg.Region, creds)
		if err != nil {
			return nil, err
		}
		return NewClient(api, cfg.Table,
			storagemodels.WithPageSize(cfg.PageSize),
			storagemodels.WithMaxRetries(cfg.MaxRetries),
		), nil
	}
}

func init() {
	registry.Register(config.BackendDynamoDB, func(cfg *config.Config) (datastore.Opener, error) {
		if cfg.DynamoDB.Table == "" {
			return nil, errors.New("dynamodb backend requires a table name")
		}
		return NewOpener(cfg.DynamoDB), nil
	})
}

// Collection returns the handle of keyspace.name; its items share the partition key "keyspace#name".
func (c *Client) Collection(keyspace, name string) datastore.Collection {
	return &Collection{client: c, partition: keyspace + "#" + name}
}

// Close is a no-op; the SDK client holds no connections that need releasing.
func (c *Client) Close(ctx context.Context) error {
	return nil
}
