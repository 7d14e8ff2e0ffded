//go:build wireinject
// +build wireinject

package di

import (
	"ForexPulse/pkg/config"
	"ForexPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideResponseCache,

		// Market data
		ProvideQuoteService,
		ProvideQuoteCollector,

		// Engine state
		ProvideSessionTracker,
		ProvideCooldownTracker,

		// Persistence and publishing
		ProvideSignalJournal,
		ProvideSignalPublisher,
		ProvideSignalRecorder,

		// Engine and HTTP layer
		ProvideEngine,
		ProvideSignalUseCase,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
