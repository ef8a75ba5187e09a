/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

import (
	"github.com/msmygit/n8n-nodes-astradb/credentials"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

var operationLabels = map[Operation]workflow.PropertyOption{
	OpInsertOne:              {Name: "Insert One", Description: "Insert a single document", Action: "Insert a document"},
	OpInsertMany:             {Name: "Insert Many", Description: "Insert several documents", Action: "Insert documents"},
	OpFindMany:               {Name: "Find Many", Description: "Find documents matching a filter", Action: "Find documents"},
	OpFindOne:                {Name: "Find One", Description: "Find the first document matching a filter", Action: "Find a document"},
	OpUpdateMany:             {Name: "Update Many", Description: "Update every document matching a filter", Action: "Update documents"},
	OpDeleteMany:             {Name: "Delete Many", Description: "Delete every document matching a filter", Action: "Delete documents"},
	OpFindOneAndUpdate:       {Name: "Find One and Update", Description: "Atomically find and update a document", Action: "Find and update a document"},
	OpFindOneAndReplace:      {Name: "Find One and Replace", Description: "Atomically find and replace a document", Action: "Find and replace a document"},
	OpFindOneAndDelete:       {Name: "Find One and Delete", Description: "Atomically find and delete a document", Action: "Find and delete a document"},
	OpEstimatedDocumentCount: {Name: "Estimated Document Count", Description: "Estimate the number of documents", Action: "Count documents"},
}

func showFor(ops ...Operation) *workflow.DisplayOptions {
	values := make([]any, len(ops))
	for i, op := range ops {
		values[i] = string(op)
	}
	return &workflow.DisplayOptions{Show: map[string][]any{ParamOperation: values}}
}

func jsonProperty(displayName, name, def, description string, show *workflow.DisplayOptions) workflow.Property {
	return workflow.Property{
		DisplayName:    displayName,
		Name:           name,
		Type:           workflow.TypeJSON,
		Default:        def,
		Description:    description,
		DisplayOptions: show,
	}
}

// Description returns the node schema shown by the workflow editor.
func (n *Node) Description() workflow.NodeDescription {
	ops := make([]workflow.PropertyOption, 0, len(Operations))
	for _, op := range Operations {
		opt := operationLabels[op]
		opt.Value = string(op)
		ops = append(ops, opt)
	}

	return workflow.NodeDescription{
		DisplayName: "Astra DB",
		Name:        "astraDb",
		Icon:        "file:astradb.svg",
		Group:       []string{"input", "output"},
		Version:     1,
		Subtitle:    `={{$parameter["operation"]}}`,
		Description: "Read and write documents in an Astra DB collection",
		Inputs:      []string{"main"},
		Outputs:     []string{"main"},
		Credentials: []workflow.CredentialRef{{Name: credentials.Name, Required: true}},
		Properties: []workflow.Property{
			{
				DisplayName:      "Operation",
				Name:             ParamOperation,
				Type:             workflow.TypeOptions,
				NoDataExpression: true,
				Default:          string(OpFindMany),
				Options:          ops,
			},
			{
				DisplayName: "Keyspace",
				Name:        ParamKeyspace,
				Type:        workflow.TypeString,
				Default:     DefaultKeyspace,
				Required:    true,
				Description: "Keyspace holding the collection",
			},
			{
				DisplayName: "Collection",
				Name:        ParamCollection,
				Type:        workflow.TypeString,
				Default:     "",
				Required:    true,
				Description: "Collection to operate on",
			},
			jsonProperty("Document", ParamDocument, "{}", "Document to insert",
				showFor(OpInsertOne)),
			jsonProperty("Documents", ParamDocuments, "[]", "Array of documents to insert",
				showFor(OpInsertMany)),
			jsonProperty("Filter", ParamFilter, "{}", "Filter selecting documents, for example {\"status\": \"active\"}",
				showFor(OpFindMany, OpFindOne, OpUpdateMany, OpDeleteMany, OpFindOneAndUpdate, OpFindOneAndReplace, OpFindOneAndDelete)),
			jsonProperty("Update", ParamUpdate, "{}", "Update operators, for example {\"$set\": {\"status\": \"inactive\"}}",
				showFor(OpUpdateMany, OpFindOneAndUpdate)),
			jsonProperty("Replacement", ParamReplacement, "{}", "Document replacing the matched one",
				showFor(OpFindOneAndReplace)),
			jsonProperty("Options", ParamOptions, "{}", "limit, skip, sort, projection, upsert and returnDocument",
				showFor(OpFindMany, OpFindOne, OpUpdateMany, OpFindOneAndUpdate, OpFindOneAndReplace, OpFindOneAndDelete)),
		},
	}
}

// CredentialDescription returns the schema of the credential type the node uses.
func (n *Node) CredentialDescription() workflow.CredentialDescription {
	return credentials.Description(n.cfg.AdminEndpoint)
}
