//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target
var Default = Build

// Build builds the ntr binary into bin/
func Build() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", "bin/ntr", "./cmd/ntr")
}

// Test runs the unit tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Golden regenerates golden files
func Golden() error {
	return sh.RunV("go", "test", "./internal/ui/...", "-update")
}

// QA runs vet and the tests
func QA() {
	mg.SerialDeps(Vet, Test)
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
