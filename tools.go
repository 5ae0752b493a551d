//go:build tools

package tools

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Tools will be added as they are needed:
// - github.com/matryer/moq (mock generation)
// - github.com/pressly/goose/v3/cmd/goose (migrations)
