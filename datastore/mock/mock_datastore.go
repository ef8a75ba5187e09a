/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Client for testing
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/internal/docmatch"
	"github.com/msmygit/n8n-nodes-astradb/registry"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// Call records one collection method invocation.
type Call struct {
	Keyspace   string
	Collection string
	Operation  string
	Filter     storagemodels.Filter
	Options    *storagemodels.Options
}

// Client is an in-memory datastore.Client. Collections keep insertion order.
type Client struct {
	mu          sync.Mutex
	collections map[string][]storagemodels.Document
	errs        map[string]error
	openErr     error
	calls       []Call
	opens       int
	closes      int
	credentials []validation.Credentials
}

var _ datastore.Client = (*Client)(nil)

// New creates an empty mock client
func New() *Client {
	return &Client{
		collections: make(map[string][]storagemodels.Document),
		errs:        make(map[string]error),
	}
}

// WithError makes the named operation ("insertOne", "findMany", ...) return err
func (c *Client) WithError(operation string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[operation] = err
	return c
}

// WithOpenError makes the Opener fail
func (c *Client) WithOpenError(err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
	return c
}

// Opener returns a datastore.Opener handing out this client
func (c *Client) Opener() datastore.Opener {
	return func(ctx context.Context, creds validation.Credentials) (datastore.Client, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.opens++
		c.credentials = append(c.credentials, creds)
		if c.openErr != nil {
			return nil, c.openErr
		}
		return c, nil
	}
}

// Collection returns a handle on keyspace.name
func (c *Client) Collection(keyspace, name string) datastore.Collection {
	return &Collection{client: c, keyspace: keyspace, name: name}
}

// Close counts the close
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Helper methods for testing

// Seed appends documents to keyspace.name
func (c *Client) Seed(keyspace, name string, docs ...storagemodels.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := collectionKey(keyspace, name)
	for _, doc := range docs {
		c.collections[key] = append(c.collections[key], docmatch.CopyDocument(doc))
	}
}

// Documents returns a copy of the documents stored in keyspace.name
func (c *Client) Documents(keyspace, name string) []storagemodels.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := c.collections[collectionKey(keyspace, name)]
	out := make([]storagemodels.Document, len(stored))
	for i, doc := range stored {
		out[i] = docmatch.CopyDocument(doc)
	}
	return out
}

// Calls returns the recorded collection calls in order
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Opens returns how many times the Opener was used
func (c *Client) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// Closes returns how many times Close was called
func (c *Client) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Credentials returns the credentials passed to the Opener
func (c *Client) Credentials() []validation.Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]validation.Credentials(nil), c.credentials...)
}

func collectionKey(keyspace, name string) string {
	return keyspace + "." + name
}

// Collection is a handle on one in-memory collection
type Collection struct {
	client   *Client
	keyspace string
	name     string
}

var _ datastore.Collection = (*Collection)(nil)

// begin locks the client, records the call and returns the injected error for operation.
// The caller must unlock.
func (col *Collection) begin(operation string, filter storagemodels.Filter, opts *storagemodels.Options) error {
	col.client.mu.Lock()
	col.client.calls = append(col.client.calls, Call{
		Keyspace:   col.keyspace,
		Collection: col.name,
		Operation:  operation,
		Filter:     filter,
		Options:    opts,
	})
	return col.client.errs[operation]
}

func (col *Collection) end() {
	col.client.mu.Unlock()
}

func (col *Collection) docs() []storagemodels.Document {
	return col.client.collections[collectionKey(col.keyspace, col.name)]
}

func (col *Collection) setDocs(docs []storagemodels.Document) {
	col.client.collections[collectionKey(col.keyspace, col.name)] = docs
}

func (col *Collection) indexOfID(id any) int {
	for i, doc := range col.docs() {
		if docmatch.Equal(doc[storagemodels.IDField], id) {
			return i
		}
	}
	return -1
}

// prepare copies doc and assigns an _id when missing.
func (col *Collection) prepare(operation string, doc storagemodels.Document) (storagemodels.Document, error) {
	stored := docmatch.CopyDocument(doc)
	if stored == nil {
		stored = storagemodels.Document{}
	}
	if _, ok := stored[storagemodels.IDField]; !ok {
		stored[storagemodels.IDField] = uuid.NewString()
	}
	if col.indexOfID(stored[storagemodels.IDField]) >= 0 {
		return nil, &apperrors.DatabaseError{
			Operation: operation,
			Code:      "DOCUMENT_ALREADY_EXISTS",
			Cause:     fmt.Errorf("document with _id %v already exists", stored[storagemodels.IDField]),
		}
	}
	return stored, nil
}

// InsertOne stores a copy of doc
func (col *Collection) InsertOne(ctx context.Context, doc storagemodels.Document) (*storagemodels.InsertOneResult, error) {
	if err := col.begin("insertOne", nil, nil); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	stored, err := col.prepare("insertOne", doc)
	if err != nil {
		return nil, err
	}
	col.setDocs(append(col.docs(), stored))
	return &storagemodels.InsertOneResult{InsertedID: stored[storagemodels.IDField], Acknowledged: true}, nil
}

// InsertMany stores docs in order, stopping at the first failure
func (col *Collection) InsertMany(ctx context.Context, docs []storagemodels.Document) (*storagemodels.InsertManyResult, error) {
	if err := col.begin("insertMany", nil, nil); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	ids := make([]any, 0, len(docs))
	for _, doc := range docs {
		stored, err := col.prepare("insertMany", doc)
		if err != nil {
			return nil, err
		}
		col.setDocs(append(col.docs(), stored))
		ids = append(ids, stored[storagemodels.IDField])
	}
	return &storagemodels.InsertManyResult{InsertedIDs: ids, Acknowledged: true}, nil
}

// Find returns copies of the matching documents
func (col *Collection) Find(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) ([]storagemodels.Document, error) {
	if err := col.begin("findMany", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	docs, err := docmatch.Select(col.docs(), filter, datastore.OptionsOrDefault(opts))
	if err != nil {
		return nil, apperrors.NewDatabaseError("findMany", err)
	}
	return docs, nil
}

// FindOne returns the first matching document or nil
func (col *Collection) FindOne(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	if err := col.begin("findOne", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	o := datastore.OptionsOrDefault(opts)
	i, err := docmatch.First(col.docs(), filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOne", err)
	}
	if i < 0 {
		return nil, nil
	}
	return docmatch.Project(col.docs()[i], o.Projection), nil
}

// UpdateMany applies update to every matching document
func (col *Collection) UpdateMany(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (*storagemodels.UpdateResult, error) {
	if err := col.begin("updateMany", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	result := &storagemodels.UpdateResult{Acknowledged: true}
	docs := col.docs()
	for i, doc := range docs {
		ok, err := docmatch.Match(doc, filter)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		if !ok {
			continue
		}
		updated, err := docmatch.Apply(doc, update, false)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		result.MatchedCount++
		if docmatch.Changed(doc, updated) {
			result.ModifiedCount++
			docs[i] = updated
		}
	}

	if result.MatchedCount == 0 && datastore.OptionsOrDefault(opts).Upsert {
		doc, err := docmatch.Upserted(filter, update)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		stored, err := col.prepare("updateMany", doc)
		if err != nil {
			return nil, err
		}
		col.setDocs(append(docs, stored))
		result.UpsertedCount = 1
		result.UpsertedID = stored[storagemodels.IDField]
	}
	return result, nil
}

// DeleteMany removes every matching document
func (col *Collection) DeleteMany(ctx context.Context, filter storagemodels.Filter) (*storagemodels.DeleteResult, error) {
	if err := col.begin("deleteMany", filter, nil); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	kept := make([]storagemodels.Document, 0, len(col.docs()))
	var deleted int64
	for _, doc := range col.docs() {
		ok, err := docmatch.Match(doc, filter)
		if err != nil {
			return nil, apperrors.NewDatabaseError("deleteMany", err)
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	col.setDocs(kept)
	return &storagemodels.DeleteResult{DeletedCount: deleted, Acknowledged: true}, nil
}

// FindOneAndUpdate updates the first matching document and returns the before or after image
func (col *Collection) FindOneAndUpdate(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (storagemodels.Document, error) {
	if err := col.begin("findOneAndUpdate", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	o := datastore.OptionsOrDefault(opts)
	i, err := docmatch.First(col.docs(), filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndUpdate", err)
	}
	if i < 0 {
		if !o.Upsert {
			return nil, nil
		}
		doc, err := docmatch.Upserted(filter, update)
		if err != nil {
			return nil, apperrors.NewDatabaseError("findOneAndUpdate", err)
		}
		return col.upsert("findOneAndUpdate", doc, o)
	}

	before := col.docs()[i]
	after, err := docmatch.Apply(before, update, false)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndUpdate", err)
	}
	col.docs()[i] = after
	return image(before, after, o), nil
}

// FindOneAndReplace replaces the first matching document, keeping its _id
func (col *Collection) FindOneAndReplace(ctx context.Context, filter storagemodels.Filter, replacement storagemodels.Document, opts *storagemodels.Options) (storagemodels.Document, error) {
	if err := col.begin("findOneAndReplace", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	o := datastore.OptionsOrDefault(opts)
	i, err := docmatch.First(col.docs(), filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndReplace", err)
	}
	if i < 0 {
		if !o.Upsert {
			return nil, nil
		}
		doc := docmatch.CopyDocument(replacement)
		if _, ok := doc[storagemodels.IDField]; !ok {
			if id, ok := docmatch.SeedFromFilter(filter)[storagemodels.IDField]; ok {
				doc[storagemodels.IDField] = id
			}
		}
		return col.upsert("findOneAndReplace", doc, o)
	}

	before := col.docs()[i]
	after := docmatch.CopyDocument(replacement)
	if id, ok := after[storagemodels.IDField]; ok && !docmatch.Equal(id, before[storagemodels.IDField]) {
		return nil, apperrors.NewDatabaseError("findOneAndReplace", fmt.Errorf("replacement cannot change the %s field", storagemodels.IDField))
	}
	after[storagemodels.IDField] = before[storagemodels.IDField]
	col.docs()[i] = after
	return image(before, after, o), nil
}

// FindOneAndDelete removes the first matching document and returns it
func (col *Collection) FindOneAndDelete(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	if err := col.begin("findOneAndDelete", filter, opts); err != nil {
		col.end()
		return nil, err
	}
	defer col.end()

	o := datastore.OptionsOrDefault(opts)
	docs := col.docs()
	i, err := docmatch.First(docs, filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndDelete", err)
	}
	if i < 0 {
		return nil, nil
	}
	removed := docs[i]
	col.setDocs(append(docs[:i:i], docs[i+1:]...))
	return docmatch.Project(removed, o.Projection), nil
}

// EstimatedDocumentCount returns the collection size
func (col *Collection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	if err := col.begin("estimatedDocumentCount", nil, nil); err != nil {
		col.end()
		return 0, err
	}
	defer col.end()
	return int64(len(col.docs())), nil
}

func (col *Collection) upsert(operation string, doc storagemodels.Document, o storagemodels.Options) (storagemodels.Document, error) {
	stored, err := col.prepare(operation, doc)
	if err != nil {
		return nil, err
	}
	col.setDocs(append(col.docs(), stored))
	if o.ReturnDocument == storagemodels.ReturnBefore {
		return nil, nil
	}
	return docmatch.Project(stored, o.Projection), nil
}

func image(before, after storagemodels.Document, o storagemodels.Options) storagemodels.Document {
	if o.ReturnDocument == storagemodels.ReturnBefore {
		return docmatch.Project(before, o.Projection)
	}
	return docmatch.Project(after, o.Projection)
}

func init() {
	registry.Register(config.BackendMemory, func(cfg *config.Config) (datastore.Opener, error) {
		return New().Opener(), nil
	})
}
