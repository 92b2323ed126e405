// Package app collects the shared infrastructure handles constructed once at
// startup and threaded into the domain services.
package app

import (
	"context"

	validator "github.com/go-playground/validator/v10"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies enumerates the shared handles so new modules wire against one
// struct instead of a growing argument list.
type Dependencies struct {
	Context         context.Context
	DB              *pgxpool.Pool
	Redis           *redis.Client
	Validator       *validator.Validate
	Limiter         *limiter.Limiter
	LimiterStore    limiter.Store
	TaskClient      *asynq.Client
	TaskServer      *asynq.Server
	MetricsRegistry *prometheus.Registry
	TracerProvider  trace.TracerProvider
	MeterProvider   metric.MeterProvider
}

// NewLimiterStore builds a ulule/limiter store on the service Redis.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{})
}

// RunMigrations applies pending migrations, treating an up-to-date schema as
// success.
func RunMigrations(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// NewTaskClient returns an asynq client for deferred jobs (e.g. nightly
// report generation) sharing the service Redis. A bad URL yields nil; callers
// treat the task queue as optional.
func NewTaskClient(redisURL string) *asynq.Client {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil
	}
	return asynq.NewClient(opt)
}

// Tracer returns the named OpenTelemetry tracer.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Meter returns the named OpenTelemetry meter.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}
