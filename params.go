/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/msmygit/n8n-nodes-astradb/storagemodels"
	"github.com/msmygit/n8n-nodes-astradb/validation"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

// Parameter names
const (
	ParamOperation   = "operation"
	ParamKeyspace    = "keyspace"
	ParamCollection  = "collection"
	ParamDocument    = "document"
	ParamDocuments   = "documents"
	ParamFilter      = "filter"
	ParamUpdate      = "update"
	ParamReplacement = "replacement"
	ParamOptions     = "options"
)

// DefaultKeyspace is used when the keyspace parameter is empty.
const DefaultKeyspace = "default_keyspace"

// itemParams resolves and validates the parameters of one item.
type itemParams struct {
	exec   workflow.ExecuteFunctions
	index  int
	logger *zap.Logger
}

func (p itemParams) raw(name string, fallback any) (any, error) {
	v, err := p.exec.GetNodeParameter(name, p.index, fallback)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter %s: %w", name, err)
	}
	return v, nil
}

func (p itemParams) filter() (storagemodels.Filter, error) {
	raw, err := p.raw(ParamFilter, "{}")
	if err != nil {
		return nil, err
	}
	filter, warnings, err := validation.ParseFilter(raw)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		p.logger.Warn("filter warning", zap.Int("item", p.index), zap.String("warning", w))
	}
	return filter, nil
}

func (p itemParams) update() (storagemodels.Update, error) {
	raw, err := p.raw(ParamUpdate, nil)
	if err != nil {
		return nil, err
	}
	return validation.ParseUpdate(raw)
}

func (p itemParams) document(name string) (storagemodels.Document, error) {
	raw, err := p.raw(name, nil)
	if err != nil {
		return nil, err
	}
	return validation.ParseDocument(raw, name)
}

func (p itemParams) documents() ([]storagemodels.Document, error) {
	raw, err := p.raw(ParamDocuments, nil)
	if err != nil {
		return nil, err
	}
	return validation.ParseDocuments(raw)
}

func (p itemParams) options() (*storagemodels.Options, error) {
	raw, err := p.raw(ParamOptions, "{}")
	if err != nil {
		return nil, err
	}
	opts, err := validation.ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 || opts.Retries != nil {
		p.logger.Info("timeout and retries options are not enforced",
			zap.Int("item", p.index),
			zap.Duration("timeout", opts.Timeout))
	}
	return &opts, nil
}

// stringParam reads a string parameter. An empty value yields fallback.
func stringParam(exec workflow.ExecuteFunctions, name string, index int, fallback string) (string, error) {
	v, err := exec.GetNodeParameter(name, index, fallback)
	if err != nil {
		return "", fmt.Errorf("failed to read parameter %s: %w", name, err)
	}
	switch s := v.(type) {
	case nil:
		return fallback, nil
	case string:
		if s == "" {
			return fallback, nil
		}
		return s, nil
	default:
		return "", fmt.Errorf("parameter %s must be a string, got %T", name, v)
	}
}
