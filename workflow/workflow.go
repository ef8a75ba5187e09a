/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package workflow

import (
	"context"
)

// PairedItem links an output item to the input item that produced it.
type PairedItem struct {
	Item  int  `json:"item" yaml:"item"`
	Input *int `json:"input,omitempty" yaml:"input,omitempty"`
}

// Item is one record flowing between workflow nodes.
type Item struct {
	JSON       map[string]any `json:"json" yaml:"json"`
	PairedItem *PairedItem    `json:"pairedItem,omitempty" yaml:"pairedItem,omitempty"`
}

// NewItem returns an item paired to input item index.
func NewItem(json map[string]any, index int) Item {
	if json == nil {
		json = map[string]any{}
	}
	return Item{JSON: json, PairedItem: &PairedItem{Item: index}}
}

// ExecuteFunctions is what the host runtime offers a node during one execution.
type ExecuteFunctions interface {
	// GetInputData returns the input items in order.
	GetInputData() []Item
	// GetNodeParameter resolves parameter name for item itemIndex, returning
	// fallback when the parameter is not set.
	GetNodeParameter(name string, itemIndex int, fallback any) (any, error)
	// GetCredentials returns the decrypted credential mapping of the given type.
	GetCredentials(ctx context.Context, name string) (map[string]any, error)
	// ContinueOnFail reports whether item failures become error records.
	ContinueOnFail() bool
}
