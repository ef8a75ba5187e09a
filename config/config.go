/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/msmygit/n8n-nodes-astradb/validation"
)

// Backend names accepted in Config.Backend.
const (
	BackendDataAPI  = "dataapi"
	BackendMongo    = "mongo"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// DefaultAdminEndpoint is the administrative API used by the credential test.
const DefaultAdminEndpoint = "https://api.astra.datastax.com/v2/databases"

// Config holds the runtime configuration of the node
type Config struct {
	// Backend selects the datastore implementation.
	Backend string `yaml:"backend" json:"backend" validate:"required,oneof=dataapi mongo dynamodb memory"`

	// AdminEndpoint is queried by the credential test.
	AdminEndpoint string `yaml:"adminEndpoint" json:"adminEndpoint" validate:"required,url"`

	// HTTPTimeout bounds every HTTP request made by the Data API backend and the credential test.
	HTTPTimeout time.Duration `yaml:"httpTimeout" json:"httpTimeout" validate:"gte=0"`

	// LogEnv is production (JSON) or development (console).
	LogEnv string `yaml:"logEnv" json:"logEnv" validate:"oneof=production development"`

	DataAPI  DataAPIConfig  `yaml:"dataapi" json:"dataapi"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb" json:"dynamodb"`
}

// DataAPIConfig tunes the Data API backend
type DataAPIConfig struct {
	// MaxPages caps how many result pages a single find follows.
	MaxPages int `yaml:"maxPages" json:"maxPages" validate:"gte=0"`
}

// DynamoDBConfig configures the DynamoDB backend
type DynamoDBConfig struct {
	Table      string `yaml:"table" json:"table" validate:"required"`
	Region     string `yaml:"region" json:"region" validate:"required"`
	PageSize   int32  `yaml:"pageSize" json:"pageSize" validate:"gte=1,lte=1000"`
	MaxRetries int    `yaml:"maxRetries" json:"maxRetries" validate:"gte=0,lte=10"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Backend:       BackendDataAPI,
		AdminEndpoint: DefaultAdminEndpoint,
		HTTPTimeout:   30 * time.Second,
		LogEnv:        "production",
		DataAPI:       DataAPIConfig{MaxPages: 100},
		DynamoDB: DynamoDBConfig{
			Table:      "astradb-documents",
			Region:     "us-east-1",
			PageSize:   100,
			MaxRetries: 3,
		},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set are not overwritten. A missing default file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		return godotenv.Load()
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ASTRADB_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("ASTRADB_ADMIN_ENDPOINT"); v != "" {
		c.AdminEndpoint = v
	}
	if v := os.Getenv("ASTRADB_HTTP_TIMEOUT"); v != "" {
		d, err := strfmt.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ASTRADB_HTTP_TIMEOUT %q: %w", v, err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("ASTRADB_LOG_ENV"); v != "" {
		c.LogEnv = v
	}
	if v := os.Getenv("ASTRADB_DATAAPI_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ASTRADB_DATAAPI_MAX_PAGES %q: %w", v, err)
		}
		c.DataAPI.MaxPages = n
	}
	if v := os.Getenv("ASTRADB_DYNAMODB_TABLE"); v != "" {
		c.DynamoDB.Table = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.DynamoDB.Region = v
	}
	return nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validation.Struct().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid configuration: %s failed %s validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether development logging is configured
func (c *Config) IsDevelopment() bool {
	return c.LogEnv == "development"
}
