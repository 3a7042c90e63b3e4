package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ChainPulse/internal/domain/repository"
	"ChainPulse/internal/handler/api"
	mid "ChainPulse/internal/middleware"
	internalrepo "ChainPulse/internal/repository"
	icache "ChainPulse/internal/service/cache"
	"ChainPulse/internal/service/feed"
	"ChainPulse/internal/usecase"
	pkgch "ChainPulse/pkg/clickhouse"
	"ChainPulse/pkg/config"
	xhttp "ChainPulse/pkg/http"
	pkgkafka "ChainPulse/pkg/kafka"
	applogger "ChainPulse/pkg/logger"
	"ChainPulse/pkg/metrics"
	"ChainPulse/pkg/queue"
	"ChainPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisClient creates the shared Redis client; nil when Redis is
// not configured.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideCache returns the latest-result cache, Redis-backed when
// configured, in-process otherwise.
func ProvideCache(rdb *redis.Client) icache.BytesCache {
	if rdb != nil {
		return icache.NewRedisCacheFromClient(rdb)
	}
	return icache.NewTTLCache()
}

// ProvideResultStorage creates the ClickHouse result store.
func ProvideResultStorage(chClient *pkgch.Client, l *applogger.Logger) (repository.ResultStorage, error) {
	store := internalrepo.NewCHResultStore(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("result store init: %w", err)
	}
	return store, nil
}

// ProvideResultPublisher creates the Kafka result publisher.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaResultPublisher(producer, cfg.Kafka.ResultsTopic, cfg.Kafka.AdvancedTopic)
}

// ProvideJobQueue creates the persistence job queue when the queue
// backend is selected; nil otherwise.
func ProvideJobQueue(cfg *config.Config, rdb *redis.Client, store repository.ResultStorage, m repository.Metrics, l *applogger.Logger) (*queue.RedisQueue, error) {
	if cfg.Backend.Type != "queue" {
		return nil, nil
	}
	if rdb == nil {
		return nil, fmt.Errorf("queue backend requires redis.addr")
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}, rdb, queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewPersistResultJob(store, m))
	return q, nil
}

// ProvideKafkaConsumer creates a Kafka consumer when snapshots arrive
// over Kafka; nil otherwise.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Feed.Source != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideSnapshotStream creates the chain feed for the configured source;
// nil for the Kafka source, which is consumed instead of streamed.
func ProvideSnapshotStream(cfg *config.Config, l *applogger.Logger) repository.SnapshotStream {
	switch cfg.Feed.Source {
	case "websocket":
		return feed.NewWSClient(
			cfg.Feed.APIKey,
			cfg.Feed.WebSocketURL,
			cfg.Feed.Symbols,
			cfg.Feed.ReconnectDelay,
			cfg.Feed.PingInterval,
			l,
		)
	case "rest":
		return feed.NewRESTPoller(
			cfg.Feed.BaseURL,
			cfg.Feed.APIKey,
			cfg.Feed.Symbols,
			cfg.Feed.PollInterval,
			l,
		)
	default:
		return nil
	}
}

// ProvideSnapshotProcessor creates the detection processor.
func ProvideSnapshotProcessor(
	cfg *config.Config,
	pub repository.Publisher,
	store repository.ResultStorage,
	jobs *queue.RedisQueue,
	cache icache.BytesCache,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(
		&cfg.Engine,
		pub,
		store,
		jobs,
		cache,
		m,
		l,
		cfg.Backend.Type,
	)
}

// ProvideSnapshotCollector creates the feed collector; nil for the Kafka
// source.
func ProvideSnapshotCollector(
	stream repository.SnapshotStream,
	processor *usecase.SnapshotProcessor,
	m repository.Metrics,
) *usecase.SnapshotCollector {
	if stream == nil {
		return nil
	}
	pipe := mid.NewSnapshotPipeline(processor, m,
		mid.WithMaxRPS(5),
		mid.WithBufferSize(500),
	)
	return usecase.NewSnapshotCollector(stream, processor, m, pipe)
}

// ProvideKafkaSnapshotsHandler registers the handler for the snapshots topic.
func ProvideKafkaSnapshotsHandler(processor *usecase.SnapshotProcessor, m repository.Metrics, cfg *config.Config) *usecase.KafkaSnapshotsHandler {
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.SnapshotsTopic, processor, m)
}

// ProvideHTTPHandler creates the read-side API handler.
func ProvideHTTPHandler(store repository.ResultStorage, cache icache.BytesCache, l *applogger.Logger) xhttp.Handler {
	query := usecase.NewAnalysisQueryUseCase(store, cache)
	return api.NewAnalysisEchoHandler(l, query)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	chClient *pkgch.Client,
	jobs *queue.RedisQueue,
	handler xhttp.Handler,
	processor *usecase.SnapshotProcessor,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	if jobs != nil {
		app.SetJobQueue(jobs)
	}
	app.Proc = processor
	return app
}
