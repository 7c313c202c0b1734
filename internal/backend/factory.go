package backend

import (
	"context"
	"fmt"

	"bujet/internal/api/memory"
	"bujet/internal/api/rest"
	"bujet/internal/log"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentBackend})
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RESTBackend:
		return f.createRESTBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRESTBackend(config Config) (*BackendResult, error) {
	client := rest.New(config.APIBaseURL, config.HTTPTimeout, f.logger)

	f.logger.Info("Initialized REST backend",
		log.FieldBackend, RESTBackend,
		log.FieldPath, config.APIBaseURL)

	return &BackendResult{
		Backend: client,
		Cleanup: nil, // the http client holds no resources worth closing
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store, creds := memory.Seeded()

	f.logger.Info("Initialized memory backend", log.FieldBackend, MemoryBackend)

	return &BackendResult{
		Backend:     store,
		Cleanup:     nil,
		Credentials: &creds,
	}, nil
}
