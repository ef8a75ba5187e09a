/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	"github.com/msmygit/n8n-nodes-astradb/registry"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// TokenUsername is the user name sent with the application token as password.
const TokenUsername = "token"

// Client wraps a mongo.Client.
type Client struct {
	client *mongo.Client
}

var _ datastore.Client = (*Client)(nil)

// ClientOptions builds driver options from the credentials: the endpoint is the
// connection URI and a token, when set, authenticates as user "token".
func ClientOptions(cfg *config.Config, creds validation.Credentials) *options.ClientOptions {
	opts := options.Client().ApplyURI(creds.Endpoint)
	if creds.Token != "" {
		opts.SetAuth(options.Credential{Username: TokenUsername, Password: creds.Token})
	}
	if cfg != nil && cfg.HTTPTimeout > 0 {
		opts.SetConnectTimeout(cfg.HTTPTimeout)
		opts.SetServerSelectionTimeout(cfg.HTTPTimeout)
	}
	return opts
}

// NewOpener returns an Opener connecting with mongo.Connect.
func NewOpener(cfg *config.Config) datastore.Opener {
	return func(ctx context.Context, creds validation.Credentials) (datastore.Client, error) {
		opts := ClientOptions(cfg, creds)
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("invalid mongo connection settings: %w", err)
		}
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		return &Client{client: client}, nil
	}
}

func init() {
	registry.Register(config.BackendMongo, func(cfg *config.Config) (datastore.Opener, error) {
		return NewOpener(cfg), nil
	})
}

// Collection returns the collection name of database keyspace.
func (c *Client) Collection(keyspace, name string) datastore.Collection {
	return &Collection{coll: c.client.Database(keyspace).Collection(name)}
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
