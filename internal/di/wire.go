//go:build wireinject
// +build wireinject

package di

import (
	"ChainPulse/pkg/config"
	"ChainPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,
		ProvideCache,
		ProvideJobQueue,

		// Repositories
		ProvideResultStorage,
		ProvideResultPublisher,
		ProvideSnapshotStream,

		// Use cases
		ProvideSnapshotProcessor,
		ProvideSnapshotCollector,
		ProvideKafkaSnapshotsHandler,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
