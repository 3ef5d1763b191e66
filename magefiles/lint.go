//go:build mage

package main

import "github.com/magefile/mage/sh"

const binLint = "golangci-lint"

// Lint runs golangci-lint, then go vet.
func Lint() error {
	if err := sh.RunV(binLint, "run", "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "vet", "./...")
}
