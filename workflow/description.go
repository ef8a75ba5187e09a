/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package workflow

// Property types
const (
	TypeOptions = "options"
	TypeString  = "string"
	TypeJSON    = "json"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
)

// NodeDescription is the declarative schema of a node.
type NodeDescription struct {
	DisplayName string          `json:"displayName"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon,omitempty"`
	Group       []string        `json:"group"`
	Version     int             `json:"version"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Description string          `json:"description"`
	Inputs      []string        `json:"inputs"`
	Outputs     []string        `json:"outputs"`
	Credentials []CredentialRef `json:"credentials,omitempty"`
	Properties  []Property      `json:"properties"`
}

// CredentialRef names a credential type a node requires.
type CredentialRef struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Property is one field shown in the node editor.
type Property struct {
	DisplayName      string           `json:"displayName"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Default          any              `json:"default"`
	Required         bool             `json:"required,omitempty"`
	NoDataExpression bool             `json:"noDataExpression,omitempty"`
	Description      string           `json:"description,omitempty"`
	Placeholder      string           `json:"placeholder,omitempty"`
	Options          []PropertyOption `json:"options,omitempty"`
	TypeOptions      map[string]any   `json:"typeOptions,omitempty"`
	DisplayOptions   *DisplayOptions  `json:"displayOptions,omitempty"`
}

// PropertyOption is one choice of an options property.
type PropertyOption struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
}

// DisplayOptions shows a property only when other properties hold given values.
type DisplayOptions struct {
	Show map[string][]any `json:"show,omitempty"`
	Hide map[string][]any `json:"hide,omitempty"`
}

// Visible reports whether a property with these display options is shown for
// the given parameter values.
func (d *DisplayOptions) Visible(values map[string]any) bool {
	if d == nil {
		return true
	}
	for name, allowed := range d.Show {
		if !contains(allowed, values[name]) {
			return false
		}
	}
	for name, hidden := range d.Hide {
		if contains(hidden, values[name]) {
			return false
		}
	}
	return true
}

func contains(list []any, v any) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// CredentialDescription is the declarative schema of a credential type.
type CredentialDescription struct {
	Name             string       `json:"name"`
	DisplayName      string       `json:"displayName"`
	DocumentationURL string       `json:"documentationUrl,omitempty"`
	Properties       []Property   `json:"properties"`
	Test             *TestRequest `json:"test,omitempty"`
}

// TestRequest is the HTTP request a host issues to test a credential.
type TestRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}
