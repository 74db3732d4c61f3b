//go:build wireinject
// +build wireinject

package di

import (
	"AssetRadar/pkg/config"
	"AssetRadar/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideRecorder,
		ProvideLogger,
		ProvideMetrics,
		ProvideQueue,

		// External sources
		ProvideCacheStore,
		ProvideCache,
		ProvideLimiter,
		ProvideAnalysisSource,
		ProvidePriceSource,

		// Distribution
		ProvideMessenger,
		ProvideMailer,

		// Storage and publishing
		ProvideClickHouseClient,
		ProvideHistory,
		ProvidePublisher,

		// Use cases
		ProvideStatusTracker,
		ProvideResolver,
		ProvideHorizonEvaluator,
		ProvideAnalyzer,
		ProvideScheduler,

		// HTTP and application server
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
