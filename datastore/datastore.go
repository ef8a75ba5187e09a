/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// Collection is a handle on one collection of one keyspace.
//
// FindOne and the find-and-modify methods return (nil, nil) when no document matches.
type Collection interface {
	InsertOne(ctx context.Context, doc storagemodels.Document) (*storagemodels.InsertOneResult, error)

	InsertMany(ctx context.Context, docs []storagemodels.Document) (*storagemodels.InsertManyResult, error)

	Find(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) ([]storagemodels.Document, error)

	FindOne(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error)

	UpdateMany(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (*storagemodels.UpdateResult, error)

	DeleteMany(ctx context.Context, filter storagemodels.Filter) (*storagemodels.DeleteResult, error)

	FindOneAndUpdate(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (storagemodels.Document, error)

	FindOneAndReplace(ctx context.Context, filter storagemodels.Filter, replacement storagemodels.Document, opts *storagemodels.Options) (storagemodels.Document, error)

	FindOneAndDelete(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error)

	EstimatedDocumentCount(ctx context.Context) (int64, error)
}

// Client is a connection to a database.
type Client interface {
	Collection(keyspace, name string) Collection

	Close(ctx context.Context) error
}

// Opener connects to a database with validated credentials.
type Opener func(ctx context.Context, creds validation.Credentials) (Client, error)

// OptionsOrDefault returns opts, or empty options with ReturnAfter when opts is nil.
func OptionsOrDefault(opts *storagemodels.Options) storagemodels.Options {
	if opts == nil {
		return storagemodels.Options{ReturnDocument: storagemodels.ReturnAfter}
	}
	return *opts
}
