/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

// Backends register themselves with the registry on import.
import (
	_ "github.com/msmygit/n8n-nodes-astradb/datastore/dataapi"
	_ "github.com/msmygit/n8n-nodes-astradb/datastore/ddb"
	_ "github.com/msmygit/n8n-nodes-astradb/datastore/mock"
	_ "github.com/msmygit/n8n-nodes-astradb/datastore/mongo"
)
