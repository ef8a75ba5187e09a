/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	astradb "github.com/msmygit/n8n-nodes-astradb"
	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/credentials"
	"github.com/msmygit/n8n-nodes-astradb/internal/logging"
	"github.com/msmygit/n8n-nodes-astradb/workflow"
)

// Environment variables holding the credential values
const (
	envEndpoint = "ASTRA_DB_API_ENDPOINT"
	envToken    = "ASTRA_DB_APPLICATION_TOKEN"
)

var (
	versionFlag   = flag.Bool("version", false, "Show version information")
	vFlag         = flag.Bool("v", false, "Show version information (short)")
	runFlag       = flag.String("run", "", "Run file (YAML or JSON) describing the items to process")
	configFlag    = flag.String("config", "", "Configuration file (YAML)")
	envFileFlag   = flag.String("env-file", "", "Environment file to load before reading configuration")
	testCredsFlag = flag.Bool("test-credentials", false, "Test the credentials against the administrative API and exit")
	describeFlag  = flag.Bool("describe", false, "Print the node and credential schema and exit")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := astradb.GetVersionInfo()
		fmt.Printf("astradb-node version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		fmt.Printf("Backends: %v\n", info.Backends)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(*envFileFlag); err != nil {
		return err
	}
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogEnv)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	creds := map[string]any{
		"endpoint": os.Getenv(envEndpoint),
		"token":    os.Getenv(envToken),
	}

	node, err := astradb.New(astradb.WithConfig(cfg), astradb.WithLogger(logger))
	if err != nil {
		return err
	}

	switch {
	case *describeFlag:
		return printJSON(map[string]any{
			"node":       node.Description(),
			"credential": node.CredentialDescription(),
		})
	case *testCredsFlag:
		result, err := credentials.NewTester(nil, cfg).Test(ctx, creds)
		if err != nil {
			return err
		}
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("credential test failed: %s", result.Message)
		}
		return nil
	case *runFlag != "":
		exec, err := workflow.LoadRunFile(*runFlag)
		if err != nil {
			return err
		}
		exec.WithCredentials(credentials.Name, creds)

		items, err := node.Execute(ctx, exec)
		if err != nil {
			return err
		}
		logger.Debug("run complete", zap.Int("items", len(items)))
		return printJSON(items)
	default:
		flag.Usage()
		return fmt.Errorf("one of -run, -test-credentials, -describe or -version is required")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
