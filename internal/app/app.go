// internal/app/app.go
package app

import (
	"fmt"
	"log"

	"github.com/shannenjosh/verifyeye/internal/config"
	"github.com/shannenjosh/verifyeye/internal/di"
	"github.com/shannenjosh/verifyeye/internal/oracle"
	"github.com/shannenjosh/verifyeye/internal/services"
	"github.com/shannenjosh/verifyeye/internal/store"

	// Provider registration
	_ "github.com/shannenjosh/verifyeye/internal/oracle/providers/hfapi"
	_ "github.com/shannenjosh/verifyeye/internal/oracle/providers/modelserver"
)

// InitServices builds all services in dependency order and registers
// them in the container. The two oracle instances are created once here
// and shared by every in-flight request afterwards.
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()

	// 1. Oracle provider
	provider, err := oracle.GetProvider(cfg.OracleProvider, cfg.OracleConfig)
	if err != nil {
		return fmt.Errorf("initialize oracle provider %q: %w", cfg.OracleProvider, err)
	}
	container.Register("oracle", provider)
	log.Printf("oracle provider ready: %s", provider.GetName())

	// 2. Results store
	resultsStore, err := store.New(cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initialize results store %q: %w", cfg.StoreBackend, err)
	}
	container.Register("store", resultsStore)
	log.Printf("results store ready: %s", cfg.StoreBackend)

	// 3. Orchestration services
	container.Register("detection", services.NewDetectionService(provider.Classifier(), cfg.Tuning))
	container.Register("generation", services.NewGenerationService(provider.Generator(), cfg.Tuning))
	container.Register("summary", services.NewSummaryService(provider.Generator(), cfg.Tuning))
	container.Register("results", services.NewResultsService(resultsStore))

	return nil
}

// Shutdown releases resources held by registered services.
func Shutdown() {
	container := di.GetContainer()

	if st, ok := container.Get("store").(store.Store); ok {
		if err := st.Close(); err != nil {
			log.Printf("shutdown: closing results store: %v", err)
		}
	}
}
