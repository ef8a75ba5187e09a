/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msmygit/n8n-nodes-astradb/datastore"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Collection adapts a mongo.Collection.
type Collection struct {
	coll *mongo.Collection
}

var _ datastore.Collection = (*Collection)(nil)

func dbError(operation string, err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		return &apperrors.DatabaseError{Operation: operation, Code: codeName(we.WriteErrors[0].Code), Cause: err}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return &apperrors.DatabaseError{Operation: operation, Code: ce.Name, Cause: err}
	}
	return apperrors.NewDatabaseError(operation, err)
}

func codeName(code int) string {
	if code == 11000 {
		return "DOCUMENT_ALREADY_EXISTS"
	}
	return ""
}

func findOptions(o storagemodels.Options) *options.FindOptions {
	opts := options.Find()
	if o.Limit != nil {
		opts.SetLimit(*o.Limit)
	}
	if o.Skip != nil {
		opts.SetSkip(*o.Skip)
	}
	if s := sortDoc(o.Sort); s != nil {
		opts.SetSort(s)
	}
	if len(o.Projection) > 0 {
		opts.SetProjection(o.Projection)
	}
	return opts
}

func returnDocument(o storagemodels.Options) options.ReturnDocument {
	if o.ReturnDocument == storagemodels.ReturnBefore {
		return options.Before
	}
	return options.After
}

// InsertOne inserts doc
func (col *Collection) InsertOne(ctx context.Context, doc storagemodels.Document) (*storagemodels.InsertOneResult, error) {
	res, err := col.coll.InsertOne(ctx, map[string]any(doc))
	if err != nil {
		return nil, dbError("insertOne", err)
	}
	return &storagemodels.InsertOneResult{InsertedID: plain(res.InsertedID), Acknowledged: true}, nil
}

// InsertMany inserts docs in order
func (col *Collection) InsertMany(ctx context.Context, docs []storagemodels.Document) (*storagemodels.InsertManyResult, error) {
	list := make([]any, len(docs))
	for i, d := range docs {
		list[i] = map[string]any(d)
	}
	res, err := col.coll.InsertMany(ctx, list, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, dbError("insertMany", err)
	}
	ids := make([]any, len(res.InsertedIDs))
	for i, id := range res.InsertedIDs {
		ids[i] = plain(id)
	}
	return &storagemodels.InsertManyResult{InsertedIDs: ids, Acknowledged: true}, nil
}

// Find runs find and drains the cursor
func (col *Collection) Find(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) ([]storagemodels.Document, error) {
	cur, err := col.coll.Find(ctx, filterDoc(filter), findOptions(datastore.OptionsOrDefault(opts)))
	if err != nil {
		return nil, dbError("findMany", err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, dbError("findMany", err)
	}
	docs := make([]storagemodels.Document, len(raw))
	for i, m := range raw {
		docs[i] = toDocument(m)
	}
	return docs, nil
}

// decodeSingle decodes a single result, mapping ErrNoDocuments to (nil, nil).
func decodeSingle(operation string, res *mongo.SingleResult) (storagemodels.Document, error) {
	var m bson.M
	if err := res.Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, dbError(operation, err)
	}
	return toDocument(m), nil
}

// FindOne runs findOne
func (col *Collection) FindOne(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	fo := options.FindOne()
	if s := sortDoc(o.Sort); s != nil {
		fo.SetSort(s)
	}
	if len(o.Projection) > 0 {
		fo.SetProjection(o.Projection)
	}
	if o.Skip != nil {
		fo.SetSkip(*o.Skip)
	}
	return decodeSingle("findOne", col.coll.FindOne(ctx, filterDoc(filter), fo))
}

// UpdateMany runs updateMany
func (col *Collection) UpdateMany(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (*storagemodels.UpdateResult, error) {
	o := datastore.OptionsOrDefault(opts)
	res, err := col.coll.UpdateMany(ctx, filterDoc(filter), map[string]any(update), options.Update().SetUpsert(o.Upsert))
	if err != nil {
		return nil, dbError("updateMany", err)
	}
	return &storagemodels.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    plain(res.UpsertedID),
		Acknowledged:  true,
	}, nil
}

// DeleteMany runs deleteMany
func (col *Collection) DeleteMany(ctx context.Context, filter storagemodels.Filter) (*storagemodels.DeleteResult, error) {
	res, err := col.coll.DeleteMany(ctx, filterDoc(filter))
	if err != nil {
		return nil, dbError("deleteMany", err)
	}
	return &storagemodels.DeleteResult{DeletedCount: res.DeletedCount, Acknowledged: true}, nil
}

// FindOneAndUpdate runs findOneAndUpdate
func (col *Collection) FindOneAndUpdate(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	fo := options.FindOneAndUpdate().SetReturnDocument(returnDocument(o)).SetUpsert(o.Upsert)
	if s := sortDoc(o.Sort); s != nil {
		fo.SetSort(s)
	}
	if len(o.Projection) > 0 {
		fo.SetProjection(o.Projection)
	}
	return decodeSingle("findOneAndUpdate", col.coll.FindOneAndUpdate(ctx, filterDoc(filter), map[string]any(update), fo))
}

// FindOneAndReplace runs findOneAndReplace
func (col *Collection) FindOneAndReplace(ctx context.Context, filter storagemodels.Filter, replacement storagemodels.Document, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	fo := options.FindOneAndReplace().SetReturnDocument(returnDocument(o)).SetUpsert(o.Upsert)
	if s := sortDoc(o.Sort); s != nil {
		fo.SetSort(s)
	}
	if len(o.Projection) > 0 {
		fo.SetProjection(o.Projection)
	}
	return decodeSingle("findOneAndReplace", col.coll.FindOneAndReplace(ctx, filterDoc(filter), map[string]any(replacement), fo))
}

// FindOneAndDelete runs findOneAndDelete
func (col *Collection) FindOneAndDelete(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	fo := options.FindOneAndDelete()
	if s := sortDoc(o.Sort); s != nil {
		fo.SetSort(s)
	}
	if len(o.Projection) > 0 {
		fo.SetProjection(o.Projection)
	}
	return decodeSingle("findOneAndDelete", col.coll.FindOneAndDelete(ctx, filterDoc(filter), fo))
}

// EstimatedDocumentCount returns the collection metadata count
func (col *Collection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	n, err := col.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, dbError("estimatedDocumentCount", err)
	}
	return n, nil
}
