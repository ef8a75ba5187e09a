/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package workflow

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Execution is an in-process ExecuteFunctions backed by static values.
type Execution struct {
	mu sync.RWMutex

	Items []Item
	// Parameters apply to every item unless overridden in ItemParameters.
	Parameters map[string]any
	// ItemParameters holds per-item overrides, indexed like Items.
	ItemParameters []map[string]any
	// Credentials maps a credential type name to its decrypted values.
	Credentials map[string]map[string]any
	// FailContinue enables continue-on-fail.
	FailContinue bool
}

var _ ExecuteFunctions = (*Execution)(nil)

// NewExecution creates an execution over items sharing parameters.
func NewExecution(parameters map[string]any, items ...Item) *Execution {
	if parameters == nil {
		parameters = map[string]any{}
	}
	return &Execution{
		Items:       items,
		Parameters:  parameters,
		Credentials: make(map[string]map[string]any),
	}
}

// WithCredentials sets the credential values of type name.
func (e *Execution) WithCredentials(name string, values map[string]any) *Execution {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Credentials == nil {
		e.Credentials = make(map[string]map[string]any)
	}
	e.Credentials[name] = values
	return e
}

// WithItemParameter overrides parameter name for item index.
func (e *Execution) WithItemParameter(index int, name string, value any) *Execution {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.ItemParameters) <= index {
		e.ItemParameters = append(e.ItemParameters, nil)
	}
	if e.ItemParameters[index] == nil {
		e.ItemParameters[index] = make(map[string]any)
	}
	e.ItemParameters[index][name] = value
	return e
}

// WithContinueOnFail sets continue-on-fail.
func (e *Execution) WithContinueOnFail(on bool) *Execution {
	e.FailContinue = on
	return e
}

// GetInputData returns the items.
func (e *Execution) GetInputData() []Item {
	return e.Items
}

// GetNodeParameter resolves name for item itemIndex: the item override first, then
// the shared parameters, then fallback.
func (e *Execution) GetNodeParameter(name string, itemIndex int, fallback any) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if itemIndex < 0 || (len(e.Items) > 0 && itemIndex >= len(e.Items)) {
		return nil, fmt.Errorf("item index %d out of range", itemIndex)
	}
	if itemIndex < len(e.ItemParameters) {
		if v, ok := e.ItemParameters[itemIndex][name]; ok {
			return v, nil
		}
	}
	if v, ok := e.Parameters[name]; ok {
		return v, nil
	}
	return fallback, nil
}

// GetCredentials returns the values stored under name.
func (e *Execution) GetCredentials(ctx context.Context, name string) (map[string]any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	values, ok := e.Credentials[name]
	if !ok {
		return nil, fmt.Errorf("no credentials of type %q configured", name)
	}
	return values, nil
}

// ContinueOnFail reports the continue-on-fail setting.
func (e *Execution) ContinueOnFail() bool {
	return e.FailContinue
}

// runFile is the on-disk layout read by LoadRunFile.
type runFile struct {
	ContinueOnFail bool           `yaml:"continueOnFail"`
	Parameters     map[string]any `yaml:"parameters"`
	Items          []struct {
		JSON       map[string]any `yaml:"json"`
		Parameters map[string]any `yaml:"parameters"`
	} `yaml:"items"`
}

// ParseRunFile builds an execution from YAML (or JSON) run file content.
// A run file without items runs once over a single empty item.
func ParseRunFile(data []byte) (*Execution, error) {
	var rf runFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse run file: %w", err)
	}

	exec := NewExecution(rf.Parameters)
	exec.FailContinue = rf.ContinueOnFail
	if len(rf.Items) == 0 {
		exec.Items = []Item{{JSON: map[string]any{}}}
		return exec, nil
	}
	for i, it := range rf.Items {
		json := it.JSON
		if json == nil {
			json = map[string]any{}
		}
		exec.Items = append(exec.Items, Item{JSON: json})
		for name, value := range it.Parameters {
			exec.WithItemParameter(i, name, value)
		}
	}
	return exec, nil
}

// LoadRunFile reads and parses a run file.
func LoadRunFile(path string) (*Execution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	return ParseRunFile(data)
}
