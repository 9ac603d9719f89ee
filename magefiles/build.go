//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the storefront project using Mage.
//
// Usage:
//
//	mage build        Compile the storefront binary to bin/
//	mage test:all     Run every test with the race detector
//	mage test:unit    Run tests in short mode
//	mage test:cover   Write coverage to bin/coverage.out
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install storefront to GOPATH/bin
//	mage serve        Build and serve on the configured address
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "storefront"
	binaryDir  = "bin"
	cmdDir     = "./cmd/storefront"
	versionVar = "github.com/mesh-intelligence/storefront/internal/cli.Version"
)

// ldflags stamps the version from `git describe`, falling back to "dev".
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(version) == "" {
		version = "dev"
	}
	return "-X " + versionVar + "=" + strings.TrimSpace(version)
}

// Build compiles the storefront binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Serve builds the binary and runs the API server.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve")
}
