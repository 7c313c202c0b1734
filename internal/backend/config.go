package backend

import (
	"fmt"
	"time"

	"bujet/internal/config"
)

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// REST specific
	APIBaseURL  string
	HTTPTimeout time.Duration
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:        backendType,
		APIBaseURL:  appConfig.APIBaseURL,
		HTTPTimeout: appConfig.HTTPTimeout,
	}, nil
}

// Validate validates the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case RESTBackend:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required for rest backend")
		}
	case MemoryBackend:
		// Memory backend doesn't require additional configuration.
	}

	return nil
}
