/*
Package astradb implements a workflow node that runs document database operations
for every input item.

The node reads its operation, keyspace and collection once per execution, validates
the credentials and identifiers, opens one database client and then processes the
items strictly in order. Each item parses and validates its own JSON parameters
before exactly one collection call is made.

Supported operations:
  - insertOne, insertMany
  - findMany, findOne
  - updateMany, deleteMany
  - findOneAndUpdate, findOneAndReplace, findOneAndDelete
  - estimatedDocumentCount

Output shaping:
  - findMany emits one item per returned document, all paired to the input item
  - findOne emits the document, or {} when nothing matched
  - every other operation emits one envelope built by package response

With continue-on-fail enabled a failing item becomes an error record
{operation, success: false, error, errorType} and the remaining items still run.

Basic Usage:

	node, err := astradb.New(astradb.WithConfig(cfg), astradb.WithLogger(logger))
	if err != nil {
	    return err
	}

	exec := workflow.NewExecution(map[string]any{
	    "operation":  "findMany",
	    "collection": "users",
	    "filter":     `{"age": {"$gt": 30}}`,
	    "options":    `{"limit": 10, "sort": {"age": -1}}`,
	}, workflow.Item{JSON: map[string]any{}})
	exec.WithCredentials("astraDbApi", map[string]any{"endpoint": endpoint, "token": token})

	items, err := node.Execute(ctx, exec)

The backend is chosen by config.Config.Backend: dataapi (default), mongo,
dynamodb or memory.
*/
package astradb
