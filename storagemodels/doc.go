/*
Package storagemodels defines the data structures shared by the node and its backends.

Key Types:

Document, Filter, Update:
Plain JSON objects. A Filter or Update is only produced by validation, so a
backend receiving one can assume it is a non-nil object free of disallowed
operators:

	filter := storagemodels.Filter{"status": "active", "age": map[string]any{"$gte": 18}}
	update := storagemodels.Update{"$set": map[string]any{"status": "archived"}}

Options:
Per-item options parsed from the node's "options" parameter:

	opts := storagemodels.Options{
	    Limit:          &limit,
	    Sort:           storagemodels.Sort{{Field: "name", Direction: 1}},
	    Projection:     map[string]any{"name": 1},
	    ReturnDocument: storagemodels.ReturnAfter,
	}

Results:
InsertOneResult, InsertManyResult, UpdateResult and DeleteResult carry the
counters every backend reports for write operations.

PageOptions:
Configuration for backends that walk paginated results:

	opts := []PageOption{
	    WithPageSize(25),
	    WithMaxRetries(3),
	}
*/
package storagemodels
