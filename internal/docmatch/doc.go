// Package docmatch evaluates document filters, update operators, sort and
// projection against in-memory documents. Backends without server-side query
// support (the in-memory and DynamoDB backends) share it so they agree on
// semantics.
package docmatch
