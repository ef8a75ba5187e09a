/*
Package workflow models the contract between a node and the workflow host.

A host hands the node an ExecuteFunctions value for one execution. The node reads
the input items, resolves parameters per item, fetches credentials and returns
output items, each paired to the input item it came from.

Execution is a static implementation used by the command line runner and tests:

	exec := workflow.NewExecution(map[string]any{
	    "operation":  "findOne",
	    "collection": "users",
	}, workflow.Item{JSON: map[string]any{}})
	exec.WithCredentials("astraDbApi", map[string]any{
	    "endpoint": "https://db-region.apps.astra.datastax.com",
	    "token":    "AstraCS:...",
	})

Run files describe an execution in YAML:

	continueOnFail: true
	parameters:
	  operation: findMany
	  keyspace: default_keyspace
	  collection: users
	items:
	  - parameters:
	      filter: '{"age": {"$gt": 30}}'
*/
package workflow
