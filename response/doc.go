/*
Package response normalizes collection results into the envelope emitted as node
output.

Every envelope carries the operation name and a success flag. The remaining fields
depend on the operation:

	insertOne               insertedId, acknowledged
	insertMany              insertedIds, insertedCount, acknowledged
	findMany                data, count
	findOne                 data, found
	updateMany              matchedCount, modifiedCount, upsertedCount, upsertedId, acknowledged
	deleteMany              deletedCount, acknowledged
	findOneAnd*             data, found
	estimatedDocumentCount  count

Any other operation name is wrapped as {operation, success, data}.
*/
package response
