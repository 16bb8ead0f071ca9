//go:build wireinject
// +build wireinject

package di

import (
	"RiskVaR/pkg/config"
	"RiskVaR/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvidePriceCache,

		// Repositories (with business logic)
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideFinnhubStream,
		ProvidePriceStore,
		ProvideReportStore,

		// Use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvidePriceSource,
		ProvideRiskPipeline,
		ProvideDailyRollup,

		// Presentation
		ProvideRiskHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
