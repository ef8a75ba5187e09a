/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataapi

import (
	"bytes"
	"context"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/msmygit/n8n-nodes-astradb/datastore"
	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// Collection issues commands against one collection.
type Collection struct {
	client   *Client
	keyspace string
	name     string
}

var _ datastore.Collection = (*Collection)(nil)

// sortSpec encodes a sort with its keys in the given order.
type sortSpec storagemodels.Sort

func (s sortSpec) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Field)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Direction))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (col *Collection) do(ctx context.Context, operation, name string, body map[string]any) (*response, error) {
	return col.client.command(ctx, operation, col.keyspace, col.name, name, body)
}

func filterValue(filter storagemodels.Filter) map[string]any {
	if filter == nil {
		return map[string]any{}
	}
	return map[string]any(filter)
}

// findBody builds the filter/sort/projection part shared by find-style commands.
func findBody(filter storagemodels.Filter, o storagemodels.Options) map[string]any {
	body := map[string]any{"filter": filterValue(filter)}
	if len(o.Sort) > 0 {
		body["sort"] = sortSpec(o.Sort)
	}
	if len(o.Projection) > 0 {
		body["projection"] = o.Projection
	}
	return body
}

func document(v map[string]any) storagemodels.Document {
	if v == nil {
		return nil
	}
	return storagemodels.Document(validation.Normalize(v).(map[string]any))
}

func statusInt(status map[string]any, key string) int64 {
	switch n := validation.Normalize(status[key]).(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func statusIDs(status map[string]any) []any {
	ids, _ := validation.Normalize(status["insertedIds"]).([]any)
	return ids
}

// InsertOne sends insertOne
func (col *Collection) InsertOne(ctx context.Context, doc storagemodels.Document) (*storagemodels.InsertOneResult, error) {
	resp, err := col.do(ctx, "insertOne", "insertOne", map[string]any{"document": map[string]any(doc)})
	if err != nil {
		return nil, err
	}
	var id any
	if ids := statusIDs(resp.Status); len(ids) > 0 {
		id = ids[0]
	}
	return &storagemodels.InsertOneResult{InsertedID: id, Acknowledged: true}, nil
}

// InsertMany sends an ordered insertMany
func (col *Collection) InsertMany(ctx context.Context, docs []storagemodels.Document) (*storagemodels.InsertManyResult, error) {
	list := make([]map[string]any, len(docs))
	for i, d := range docs {
		list[i] = map[string]any(d)
	}
	resp, err := col.do(ctx, "insertMany", "insertMany", map[string]any{
		"documents": list,
		"options":   map[string]any{"ordered": true},
	})
	if err != nil {
		return nil, err
	}
	ids := statusIDs(resp.Status)
	if ids == nil {
		ids = []any{}
	}
	return &storagemodels.InsertManyResult{InsertedIDs: ids, Acknowledged: true}, nil
}

// Find sends find, following nextPageState until the limit, the page cap or the last page
func (col *Collection) Find(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) ([]storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	docs := []storagemodels.Document{}
	var pageState string

	for page := 0; col.client.maxPages == 0 || page < col.client.maxPages; page++ {
		body := findBody(filter, o)
		options := map[string]any{}
		if o.Limit != nil {
			options["limit"] = *o.Limit
		}
		if o.Skip != nil {
			options["skip"] = *o.Skip
		}
		if pageState != "" {
			options["pageState"] = pageState
		}
		if len(options) > 0 {
			body["options"] = options
		}

		resp, err := col.do(ctx, "findMany", "find", body)
		if err != nil {
			return nil, err
		}
		if resp.Data == nil {
			break
		}
		for _, d := range resp.Data.Documents {
			docs = append(docs, document(d))
		}
		if o.Limit != nil && int64(len(docs)) >= *o.Limit {
			return docs[:*o.Limit], nil
		}
		if resp.Data.NextPageState == nil || *resp.Data.NextPageState == "" {
			break
		}
		pageState = *resp.Data.NextPageState
	}
	return docs, nil
}

// FindOne sends findOne
func (col *Collection) FindOne(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	resp, err := col.do(ctx, "findOne", "findOne", findBody(filter, datastore.OptionsOrDefault(opts)))
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}
	return document(resp.Data.Document), nil
}

// UpdateMany sends updateMany, repeating with nextPageState while the server reports more data
func (col *Collection) UpdateMany(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (*storagemodels.UpdateResult, error) {
	o := datastore.OptionsOrDefault(opts)
	result := &storagemodels.UpdateResult{Acknowledged: true}
	var pageState string

	for {
		options := map[string]any{}
		if o.Upsert {
			options["upsert"] = true
		}
		if pageState != "" {
			options["pageState"] = pageState
		}
		body := map[string]any{"filter": filterValue(filter), "update": map[string]any(update)}
		if len(options) > 0 {
			body["options"] = options
		}

		resp, err := col.do(ctx, "updateMany", "updateMany", body)
		if err != nil {
			return nil, err
		}
		result.MatchedCount += statusInt(resp.Status, "matchedCount")
		result.ModifiedCount += statusInt(resp.Status, "modifiedCount")
		if id, ok := resp.Status["upsertedId"]; ok && id != nil {
			result.UpsertedID = validation.Normalize(id)
			result.UpsertedCount = 1
		}

		next, _ := resp.Status["nextPageState"].(string)
		if more, _ := resp.Status["moreData"].(bool); !more || next == "" {
			return result, nil
		}
		pageState = next
	}
}

// DeleteMany sends deleteMany until the server stops reporting more data
func (col *Collection) DeleteMany(ctx context.Context, filter storagemodels.Filter) (*storagemodels.DeleteResult, error) {
	result := &storagemodels.DeleteResult{Acknowledged: true}
	for {
		resp, err := col.do(ctx, "deleteMany", "deleteMany", map[string]any{"filter": filterValue(filter)})
		if err != nil {
			return nil, err
		}
		result.DeletedCount += statusInt(resp.Status, "deletedCount")
		if more, _ := resp.Status["moreData"].(bool); !more {
			return result, nil
		}
	}
}

func modifyOptions(o storagemodels.Options) map[string]any {
	returnDocument := o.ReturnDocument
	if returnDocument == "" {
		returnDocument = storagemodels.ReturnAfter
	}
	return map[string]any{
		"returnDocument": string(returnDocument),
		"upsert":         o.Upsert,
	}
}

// FindOneAndUpdate sends findOneAndUpdate
func (col *Collection) FindOneAndUpdate(ctx context.Context, filter storagemodels.Filter, update storagemodels.Update, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	body := findBody(filter, o)
	body["update"] = map[string]any(update)
	body["options"] = modifyOptions(o)

	resp, err := col.do(ctx, "findOneAndUpdate", "findOneAndUpdate", body)
	if err != nil || resp.Data == nil {
		return nil, err
	}
	return document(resp.Data.Document), nil
}

// FindOneAndReplace sends findOneAndReplace
func (col *Collection) FindOneAndReplace(ctx context.Context, filter storagemodels.Filter, replacement storagemodels.Document, opts *storagemodels.Options) (storagemodels.Document, error) {
	o := datastore.OptionsOrDefault(opts)
	body := findBody(filter, o)
	body["replacement"] = map[string]any(replacement)
	body["options"] = modifyOptions(o)

	resp, err := col.do(ctx, "findOneAndReplace", "findOneAndReplace", body)
	if err != nil || resp.Data == nil {
		return nil, err
	}
	return document(resp.Data.Document), nil
}

// FindOneAndDelete sends findOneAndDelete
func (col *Collection) FindOneAndDelete(ctx context.Context, filter storagemodels.Filter, opts *storagemodels.Options) (storagemodels.Document, error) {
	resp, err := col.do(ctx, "findOneAndDelete", "findOneAndDelete", findBody(filter, datastore.OptionsOrDefault(opts)))
	if err != nil || resp.Data == nil {
		return nil, err
	}
	return document(resp.Data.Document), nil
}

// EstimatedDocumentCount sends estimatedDocumentCount
func (col *Collection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	resp, err := col.do(ctx, "estimatedDocumentCount", "estimatedDocumentCount", map[string]any{})
	if err != nil {
		return 0, err
	}
	return statusInt(resp.Status, "count"), nil
}
