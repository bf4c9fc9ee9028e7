//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/aserto-dev/mage-loot/common"
	"github.com/aserto-dev/mage-loot/deps"
	"github.com/magefile/mage/mg"
)

func init() {
	os.Setenv("GO_VERSION", "1.24")
}

// Build builds the helpdesk-groups binary in ./cmd.
func Build() error {
	return common.BuildReleaser()
}

// BuildAll builds helpdesk-groups for all configured operating systems and architectures.
func BuildAll() error {
	return common.BuildAllReleaser("--clean", "--snapshot")
}

// Lint runs linting for the entire project.
func Lint() error {
	return common.Lint()
}

// Test runs the unit tests and generates a code coverage report.
func Test() error {
	return common.Test("-timeout", "120s")
}

// Integration runs the MongoDB backed tests in ./pkg/test. Requires docker.
func Integration() error {
	return common.Test("-tags", "integration", "-timeout", "600s", "-parallel=1", "./pkg/test/...")
}

func Deps() {
	deps.GetAllDeps()
}

// All runs deps, lint, test and build in that order.
func All() error {
	mg.SerialDeps(Deps, Lint, Test, Build)
	return nil
}

// Release publishes a helpdesk-groups release.
func Release() error {
	if os.Getenv("GITHUB_TOKEN") == "" {
		return fmt.Errorf("GITHUB_TOKEN environment variable is undefined")
	}

	return common.Release("--clean")
}
