// Package validation checks and converts the loosely typed parameters of a workflow item.
//
// Raw values arrive as JSON strings or already-decoded objects. Each is validated
// once at the boundary and converted to a storagemodels type; nothing downstream
// re-checks it. Validation never touches the network, so a rejected item causes
// no database call.
package validation
