/*
Package ddb stores document collections in a single DynamoDB table.

Every collection maps to one partition; every document to one item:

	PK   "<keyspace>#<collection>"
	SK   the document _id (non-string ids are JSON-encoded behind a "#" prefix)
	Rev  revision, incremented on every write
	Seq  insertion timestamp, used to keep insertion order
	Doc  the document as a DynamoDB map

Reads page through the partition with Query, retrying throttling errors with
linear backoff (see storagemodels.PageOptions). Filters, sort and projection
are evaluated in memory by internal/docmatch.

Writes are conditional. Inserts require attribute_not_exists(SK); updates,
replacements and deletes require the revision that was read, so a concurrent
writer surfaces as an errors.ConditionFailedError instead of a lost update.

The backend registers itself as "dynamodb":

	cfg.Backend = config.BackendDynamoDB
	opener, _ := registry.Opener(cfg)
*/
package ddb
