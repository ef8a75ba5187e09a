/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
	"github.com/msmygit/n8n-nodes-astradb/validation"
)

func TestRegisterAndLookup(t *testing.T) {
	sentinel := errors.New("opened")
	Register("registry-test", func(cfg *config.Config) (datastore.Opener, error) {
		return func(ctx context.Context, creds validation.Credentials) (datastore.Client, error) {
			return nil, sentinel
		}, nil
	})

	cfg := config.Default()
	cfg.Backend = "registry-test"
	opener, err := Opener(cfg)
	if err != nil {
		t.Fatalf("Opener failed: %v", err)
	}
	if _, err := opener(context.Background(), validation.Credentials{}); !errors.Is(err, sentinel) {
		t.Fatalf("expected the registered opener to run, got %v", err)
	}

	found := false
	for _, name := range Names() {
		if name == "registry-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, missing registry-test", Names())
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("does-not-exist"); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	factory := func(cfg *config.Config) (datastore.Opener, error) { return nil, nil }
	Register("registry-dup", factory)

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	Register("registry-dup", factory)
}
