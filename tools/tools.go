//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// mockgen - regenerates internal/mocks from the core ports
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Run:     go generate ./internal/mocks/...
//
// goose - applies or inspects migrations outside the service
//   Install: go install github.com/pressly/goose/v3/cmd/goose@v3.26.0
//   Run:     goose -dir internal/migrate/migrations postgres "$DATABASE_URL" status
