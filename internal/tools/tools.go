//go:build tools

// Package tools declares the project's tool dependencies, so that they're
// versioned in go.mod without being imported by any real package.
package tools

import (
	_ "github.com/BurntSushi/go-sumtype"
	_ "golang.org/x/tools/cmd/stringer"
	_ "gotest.tools/gotestsum"
)
