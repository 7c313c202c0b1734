// Package backend selects and constructs the data backend the application
// talks to: the remote REST service or the in-process memory store.
package backend

import (
	"context"

	"bujet/internal/api"
)

// Backend bundles every port the application consumes.
type Backend interface {
	api.AccountLister
	api.AccountReader
	api.AccountWriter
	api.BalanceReader
	api.TransactionLister
	api.TransactionCounter
	api.TransactionWriter
	api.UserAuthenticator
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc

	// Credentials is set only by backends that come pre-authenticated,
	// such as the seeded memory backend.
	Credentials *api.Credentials
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType represents the type of backend.
type BackendType string

const (
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// GetBackendTypes returns all valid backend types.
func GetBackendTypes() []BackendType {
	return []BackendType{RESTBackend, MemoryBackend}
}
