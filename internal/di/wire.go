//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"Assemblief/pkg/config"
	"Assemblief/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,

		// Market data
		ProvideRegistry,
		ProvideCandleStore,
		ProvideCache,
		ProvideMarketDataSource,
		ProvideEvaluationPublisher,

		// Engines
		ProvideBacktestEngine,
		ProvideClassifier,
		ProvideSignalSet,
		ProvideRankerConfig,

		// Use cases
		ProvideAnalytics,
		ProvideRanker,
		ProvideReplayer,

		// Application server
		ProvideAnalyticsHandler,
		ProvideHTTPServer,
		server.New,
	)
	return nil, nil, nil
}
