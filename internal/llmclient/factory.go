// File: internal/llmclient/factory.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/config"
)

// New is a factory function that creates a TextGenerator based on the
// configured provider.
func New(cfg config.GeneratorConfig, logger *zap.Logger) (schemas.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported generation provider %q. Supported: [%s]", cfg.Provider, config.ProviderGemini)
	}
}
