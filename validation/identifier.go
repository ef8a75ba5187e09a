/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package validation

import (
	"regexp"
	"strings"

	apperrors "github.com/msmygit/n8n-nodes-astradb/errors"
)

// IdentifierKind names what an identifier refers to.
type IdentifierKind string

const (
	KindKeyspace   IdentifierKind = "keyspace"
	KindCollection IdentifierKind = "collection"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// reservedIdentifiers are compared case-insensitively.
var reservedIdentifiers = map[string]struct{}{
	"system":                {},
	"system_auth":           {},
	"system_schema":         {},
	"system_traces":         {},
	"system_views":          {},
	"system_virtual_schema": {},
}

// ValidateIdentifier checks a keyspace or collection name before a collection handle is obtained.
func ValidateIdentifier(name string, kind IdentifierKind) error {
	if name == "" {
		return apperrors.NewIdentifierError(string(kind), name, "must not be empty")
	}
	if !identifierPattern.MatchString(name) {
		return apperrors.NewIdentifierError(string(kind), name,
			"must start with a letter and contain only letters, digits and underscores")
	}
	if _, reserved := reservedIdentifiers[strings.ToLower(name)]; reserved {
		return apperrors.NewIdentifierError(string(kind), name, "is a reserved name")
	}
	return nil
}
