//go:build mage

// Package main provides build targets for the backlog project using Mage.
//
// Usage:
//
//	mage build          Compile the backlog binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install backlog to GOPATH/bin
//	mage stats          Print Go LOC counts
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "backlog"
	binaryDir  = "bin"
	cmdDir     = "./cmd/backlog"

	versionVar = "github.com/mesh-intelligence/backlog/internal/cli.Version"
)

// ldflags stamps the version from BACKLOG_VERSION when it is set.
func ldflags() string {
	if v := os.Getenv("BACKLOG_VERSION"); v != "" {
		return fmt.Sprintf("-X %s=%s", versionVar, v)
	}
	return ""
}

// Build compiles the backlog binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test groups the test targets.
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs every test with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover writes a coverage profile and prints the per-function summary.
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

// Stats prints Go lines of code, split into production and test code.
func Stats() error {
	var prodLines, testLines int

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path == "vendor" || path == ".git" || path == binaryDir || strings.HasPrefix(path, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasPrefix(path, "magefiles") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
		} else {
			prodLines += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines of code (Go, total):      %d\n", prodLines+testLines)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
