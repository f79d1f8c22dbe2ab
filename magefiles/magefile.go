//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the margins project using Mage.
//
// Usage:
//
//	mage build       Compile the margins binary to bin/
//	mage test:all    Run all tests
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Run all tests and write coverage.out
//	mage vet         Run go vet
//	mage lint        Run go vet and golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install margins to GOPATH/bin
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
	binaryName = "margins"
	binaryDir  = "bin"
	cmdDir     = "./cmd/margins"
	versionVar = "github.com/mesh-intelligence/margins/internal/cli.Version"
)

// Build compiles the margins binary to bin/. The version is taken from
// MARGINS_VERSION or the latest git tag when set.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := version(); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

func version() string {
	if v := os.Getenv("MARGINS_VERSION"); v != "" {
		return v
	}
	tag, err := sh.Output("git", "describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, "coverage.out"} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
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

func getenvBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
