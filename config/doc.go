/*
Package config loads the runtime configuration of the Astra DB node.

Values come from three layers, later layers winning:

  - built-in defaults (Default)
  - an optional YAML file
  - environment variables, optionally loaded from a .env file

Recognised environment variables:

	ASTRADB_BACKEND            dataapi | mongo | dynamodb | memory
	ASTRADB_ADMIN_ENDPOINT     administrative API used by the credential test
	ASTRADB_HTTP_TIMEOUT       duration such as "30s"
	ASTRADB_LOG_ENV            production | development
	ASTRADB_DATAAPI_MAX_PAGES  page cap for Data API finds
	ASTRADB_DYNAMODB_TABLE     table of the dynamodb backend
	AWS_REGION                 region of the dynamodb backend
*/
package config
