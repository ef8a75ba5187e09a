/*
Package datastore defines the document-database contract the node runs against.

A Client is opened once per execution through an Opener and hands out
Collection handles:

	type Collection interface {
	    InsertOne(ctx, doc) (*storagemodels.InsertOneResult, error)
	    InsertMany(ctx, docs) (*storagemodels.InsertManyResult, error)
	    Find(ctx, filter, opts) ([]storagemodels.Document, error)
	    FindOne(ctx, filter, opts) (storagemodels.Document, error)
	    UpdateMany(ctx, filter, update, opts) (*storagemodels.UpdateResult, error)
	    DeleteMany(ctx, filter) (*storagemodels.DeleteResult, error)
	    FindOneAndUpdate(ctx, filter, update, opts) (storagemodels.Document, error)
	    FindOneAndReplace(ctx, filter, replacement, opts) (storagemodels.Document, error)
	    FindOneAndDelete(ctx, filter, opts) (storagemodels.Document, error)
	    EstimatedDocumentCount(ctx) (int64, error)
	}

Implementations:
  - dataapi: serverless Data API over HTTPS (default)
  - mongo: MongoDB wire protocol
  - ddb: DynamoDB single-table document storage
  - mock: in-memory backend for testing

Filters, updates and documents handed to a Collection have already passed
validation; backends translate them but do not re-validate.
*/
package datastore
