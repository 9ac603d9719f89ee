//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// envPostgresDSN enables the postgres backend tests.
const envPostgresDSN = "STOREFRONT_TEST_POSTGRES_DSN"

// Test groups test targets (all, unit, cover, postgres).
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "-count=1", "./...")
}

// Unit runs tests in short mode, skipping listener and timing tests.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Cover writes a coverage profile to bin/coverage.out and prints the
// per-function summary.
func (Test) Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func", profile)
}

// Postgres runs the postgres backend tests against the server named by
// STOREFRONT_TEST_POSTGRES_DSN.
func (Test) Postgres() error {
	if os.Getenv(envPostgresDSN) == "" {
		return fmt.Errorf("%s is not set", envPostgresDSN)
	}
	return sh.RunV(binGo, "test", "-count=1", "-v", "./internal/postgres/...")
}
