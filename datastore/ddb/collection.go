/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/msmygit/n8n-nodes-astradb/datastore"
	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
	"github.com/msmygit/n8n-nodes-astradb/internal/docmatch"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
)

// Collection is one document collection stored under a single partition key.
// Filters, sort and projection are evaluated client-side over the partition.
type Collection struct {
	client    *Client
	partition string
}

var _ datastore.Collection = (*Collection)(nil)

func (col *Collection) records(ctx context.Context, operation string) ([]record, []storagemodels.Document, error) {
	records, err := col.client.load(ctx, col.partition)
	if err != nil {
		return nil, nil, apperrors.NewDatabaseError(operation, err)
	}
	docs := make([]storagemodels.Document, len(records))
	for i, r := range records {
		docs[i] = storagemodels.Document(r.Doc)
	}
	return records, docs, nil
}

// insert writes a new document, failing when its _id is taken.
func (col *Collection) insert(ctx context.Context, operation string, doc storagemodels.Document) (storagemodels.Document, error) {
	stored := docmatch.CopyDocument(doc)
	if stored == nil {
		stored = storagemodels.Document{}
	}
	if _, ok := stored[storagemodels.IDField]; !ok {
		stored[storagemodels.IDField] = uuid.NewString()
	}
	r, err := newRecord(col.partition, stored, 1, 0)
	if err != nil {
		return nil, apperrors.NewDatabaseError(operation, err)
	}
	if err := col.put(ctx, operation, r, condNotExists, nil); err != nil {
		return nil, err
	}
	return stored, nil
}

// replace writes a new version of r, conditional on r still being at its revision.
func (col *Collection) replace(ctx context.Context, operation string, r record, doc storagemodels.Document) error {
	next, err := newRecord(col.partition, doc, r.Rev+1, r.Seq)
	if err != nil {
		return apperrors.NewDatabaseError(operation, err)
	}
	if next.SK != r.SK {
		return apperrors.NewDatabaseError(operation, fmt.Errorf("the %s field cannot be modified", storagemodels.IDField))
	}
	return col.put(ctx, operation, next, condRevision, &r.Rev)
}

func (col *Collection) put(ctx context.Context, operation string, r record, condition string, rev *int64) error {
	item, err := r.item()
	if err != nil {
		return apperrors.NewDatabaseError(operation, err)
	}
	input := &sdk.PutItemInput{
		TableName:           &col.client.tableName,
		Item:                item,
		ConditionExpression: aws.String(condition),
	}
	if rev != nil {
		input.ExpressionAttributeValues = revisionValue(*rev)
	}

	if _, err := col.client.api.PutItem(ctx, input); err != nil {
		return writeError(operation, condition, r, err)
	}
	return nil
}

func (col *Collection) remove(ctx context.Context, operation string, r record) error {
	_, err := col.client.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                 &col.client.tableName,
		Key:                       r.key(),
		ConditionExpression:       aws.String(condRevision),
		ExpressionAttributeValues: revisionValue(r.Rev),
	})
	if err != nil {
		return writeError(operation, condRevision, r, err)
	}
	return nil
}

func writeError(operation, condition string, r record, err error) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		if condition == condNotExists {
			return &apperrors.DatabaseError{
				Operation: operation,
				Code:      "DOCUMENT_ALREADY_EXISTS",
				Cause:     fmt.Errorf("document with _id %s already exists", r.SK),
			}
		}
		return apperrors.NewConditionFailedError(operation, fmt.Sprintf("document %s changed concurrently", r.SK))
	}
	return apperrors.NewDatabaseError(operation, err)
}

// InsertOne stores doc, generating a UUID _id when missing
func (col *Collection) InsertOne(ctx context.Context, doc storagemodels.Document) (*storagemodels.InsertOneResult, error) {
	stored, err := col.insert(ctx, "insertOne", doc)
	if err != nil {
		return nil, err
	}
	return &storagemodels.InsertOneResult{InsertedID: stored[storagemodels.IDField], Acknowledged: true}, nil
}

// InsertMany stores docs in order, stopping at the first failure
func (col *Collection) InsertMany(ctx context.Context, docs []storagemodels.Document) (*storagemodels.InsertManyResult, error) {
	ids := make([]any, 0, len(docs))
	for _, doc := range docs {
		stored, err := col.insert(ctx, "insertMany", doc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, stored[storagemodels.IDField])
	}
	return &storagemodels.InsertManyResult{InsertedIDs: ids, Acknowledged: true}, nil
}

// Find returns the matching documents
func (col *Collection) Find(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) ([]storagemodels.Document, error) {
	_, docs, err := col.records(ctx, "findMany")
	if err != nil {
		return nil, err
	}
	out, err := docmatch.Select(docs, filter, datastore.OptionsOrDefault(opts))
	if err != nil {
		return nil, apperrors.NewDatabaseError("findMany", err)
	}
	return out, nil
}

// FindOne returns the first matching document or nil
func (col *Collection) FindOne(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	_, docs, err := col.records(ctx, "findOne")
	if err != nil {
		return nil, err
	}
	i, err := docmatch.First(docs, filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOne", err)
	}
	if i < 0 {
		return nil, nil
	}
	return docmatch.Project(docs[i], o.Projection), nil
}

// UpdateMany applies update to every matching document. Each write is conditional on
// the revision read, so a concurrent change surfaces as a ConditionFailedError.
func (col *Collection) UpdateMany(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (*storagemodels.UpdateResult, error) {
	records, docs, err := col.records(ctx, "updateMany")
	if err != nil {
		return nil, err
	}

	result := &storagemodels.UpdateResult{Acknowledged: true}
	for i, doc := range docs {
		ok, err := docmatch.Match(doc, filter)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		if !ok {
			continue
		}
		result.MatchedCount++
		updated, err := docmatch.Apply(doc, update, false)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		if !docmatch.Changed(doc, updated) {
			continue
		}
		if err := col.replace(ctx, "updateMany", records[i], updated); err != nil {
			return nil, err
		}
		result.ModifiedCount++
	}

	if result.MatchedCount == 0 && datastore.OptionsOrDefault(opts).Upsert {
		doc, err := docmatch.Upserted(filter, update)
		if err != nil {
			return nil, apperrors.NewDatabaseError("updateMany", err)
		}
		stored, err := col.insert(ctx, "updateMany", doc)
		if err != nil {
			return nil, err
		}
		result.UpsertedCount = 1
		result.UpsertedID = stored[storagemodels.IDField]
	}
	return result, nil
}

// DeleteMany removes every matching document
func (col *Collection) DeleteMany(ctx context.Context, filter storagemodels.Filter) (*storagemodels.DeleteResult, error) {
	records, docs, err := col.records(ctx, "deleteMany")
	if err != nil {
		return nil, err
	}

	result := &storagemodels.DeleteResult{Acknowledged: true}
	for i, doc := range docs {
		ok, err := docmatch.Match(doc, filter)
		if err != nil {
			return nil, apperrors.NewDatabaseError("deleteMany", err)
		}
		if !ok {
			continue
		}
		if err := col.remove(ctx, "deleteMany", records[i]); err != nil {
			return nil, err
		}
		result.DeletedCount++
	}
	return result, nil
}

// FindOneAndUpdate updates the first matching document and returns the before or after image
func (col *Collection) FindOneAndUpdate(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	records, docs, err := col.records(ctx, "findOneAndUpdate")
	if err != nil {
		return nil, err
	}
	i, err := docmatch.First(docs, filter, o.Sort)
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
		return col.upsert(ctx, "findOneAndUpdate", doc, o)
	}

	after, err := docmatch.Apply(docs[i], update, false)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndUpdate", err)
	}
	if docmatch.Changed(docs[i], after) {
		if err := col.replace(ctx, "findOneAndUpdate", records[i], after); err != nil {
			return nil, err
		}
	}
	return image(docs[i], after, o), nil
}

// FindOneAndReplace replaces the first matching document, keeping its _id
func (col *Collection) FindOneAndReplace(ctx context.Context, filter storagemodels.Filter, replacement storagemodels.Document, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	records, docs, err := col.records(ctx, "findOneAndReplace")
	if err != nil {
		return nil, err
	}
	i, err := docmatch.First(docs, filter, o.Sort)
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
		return col.upsert(ctx, "findOneAndReplace", doc, o)
	}

	after := docmatch.CopyDocument(replacement)
	if id, ok := after[storagemodels.IDField]; ok && !docmatch.Equal(id, docs[i][storagemodels.IDField]) {
		return nil, apperrors.NewDatabaseError("findOneAndReplace", fmt.Errorf("replacement cannot change the %s field", storagemodels.IDField))
	}
	after[storagemodels.IDField] = docs[i][storagemodels.IDField]
	if err := col.replace(ctx, "findOneAndReplace", records[i], after); err != nil {
		return nil, err
	}
	return image(docs[i], after, o), nil
}

// FindOneAndDelete removes the first matching document and returns it
func (col *Collection) FindOneAndDelete(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	records, docs, err := col.records(ctx, "findOneAndDelete")
	if err != nil {
		return nil, err
	}
	i, err := docmatch.First(docs, filter, o.Sort)
	if err != nil {
		return nil, apperrors.NewDatabaseError("findOneAndDelete", err)
	}
	if i < 0 {
		return nil, nil
	}
	if err := col.remove(ctx, "findOneAndDelete", records[i]); err != nil {
		return nil, err
	}
	return docmatch.Project(docs[i], o.Projection), nil
}

// EstimatedDocumentCount counts the items of the partition
func (col *Collection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	n, err := col.client.count(ctx, col.partition)
	if err != nil {
		return 0, apperrors.NewDatabaseError("estimatedDocumentCount", err)
	}
	return n, nil
}

func (col *Collection) upsert(ctx context.Context, operation string, doc storagemodels.Document, o storagemodels.Options) (storagemodels.Document, error) {
	stored, err := col.insert(ctx, operation, doc)
	if err != nil {
		return nil, err
	}
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
