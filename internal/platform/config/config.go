// Package config loads process configuration from struct defaults, an
// optional YAML file and TANDEM_-prefixed environment variables, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"time"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/settings"
)

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	AdminToken      string        `koanf:"admin_token"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gte=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development production test"`
}

// DatabaseConfig configures the Postgres pool. An empty URL runs every store
// in memory.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	TxTimeout       time.Duration `koanf:"tx_timeout" validate:"gte=0"`
	Migrate         bool          `koanf:"migrate"`
}

// RedisConfig configures the optional Redis client used for distributed locks.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size" validate:"gte=0"`
	MinIdleConns int           `koanf:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// KafkaConfig configures generation event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string      `koanf:"brokers"`
	Topic             string        `koanf:"topic" validate:"required_with=Brokers"`
	ClientID          string        `koanf:"client_id"`
	CreateTopic       bool          `koanf:"create_topic"`
	Partitions        int32         `koanf:"partitions" validate:"gte=0"`
	ReplicationFactor int16         `koanf:"replication_factor" validate:"gte=0"`
	ProduceTimeout    time.Duration `koanf:"produce_timeout" validate:"gte=0"`
	// BreakerThreshold consecutive produce failures stop publishing to the
	// broker for BreakerCooldown.
	BreakerThreshold int           `koanf:"breaker_threshold" validate:"gte=0"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown" validate:"gte=0"`
}

// RecommendConfig holds the initial recommendation policy plus the knobs
// that are not admin-editable at runtime.
type RecommendConfig struct {
	Settings    models.Settings `koanf:"settings"`
	Lock        LockConfig      `koanf:"lock"`
	Schedule    ScheduleConfig  `koanf:"schedule"`
	MaxPageSize int             `koanf:"max_page_size" validate:"gt=0"`
	// RefreshLimit forced refreshes are admitted per member within
	// RefreshWindow. Zero disables the limit.
	RefreshLimit  int           `koanf:"refresh_limit" validate:"gte=0"`
	RefreshWindow time.Duration `koanf:"refresh_window" validate:"gte=0"`
}

// LockConfig selects the per-user lock backend.
type LockConfig struct {
	Backend       string        `koanf:"backend" validate:"oneof=memory redis"`
	WaitTimeout   time.Duration `koanf:"wait_timeout" validate:"gte=0"`
	TTL           time.Duration `koanf:"ttl" validate:"gt=0"`
	RetryInterval time.Duration `koanf:"retry_interval" validate:"gt=0"`
}

// ScheduleConfig holds cron specs for background jobs. An empty spec
// disables that job.
type ScheduleConfig struct {
	Enabled          bool          `koanf:"enabled"`
	CleanupSpec      string        `koanf:"cleanup_spec"`
	AdjacencySpec    string        `koanf:"adjacency_spec"`
	WarmupSpec       string        `koanf:"warmup_spec"`
	WarmupTolerance  time.Duration `koanf:"warmup_tolerance" validate:"gte=0"`
	WarmupBatchSize  int           `koanf:"warmup_batch_size" validate:"gt=0"`
	WarmupMaxMembers int           `koanf:"warmup_max_members" validate:"gte=0"`
	SweepSpec        string        `koanf:"sweep_spec"`
	// JobTimeout bounds each run; zero leaves runs unbounded.
	JobTimeout time.Duration `koanf:"job_timeout" validate:"gte=0"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// TracingConfig selects the OpenTelemetry span exporter.
type TracingConfig struct {
	Exporter     string  `koanf:"exporter" validate:"oneof=none stdout otlp"`
	OTLPEndpoint string  `koanf:"otlp_endpoint" validate:"required_if=Exporter otlp"`
	Insecure     bool    `koanf:"insecure"`
	ServiceName  string  `koanf:"service_name"`
	SampleRatio  float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			TxTimeout:       5 * time.Second,
			Migrate:         true,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:             "recommendations.generated",
			ClientID:          "tandem-recommend",
			CreateTopic:       true,
			Partitions:        6,
			ReplicationFactor: 1,
			ProduceTimeout:    5 * time.Second,
			BreakerThreshold:  5,
			BreakerCooldown:   30 * time.Second,
		},
		Recommend: RecommendConfig{
			Settings: models.DefaultSettings(),
			Lock: LockConfig{
				Backend:       "memory",
				TTL:           30 * time.Second,
				RetryInterval: 50 * time.Millisecond,
			},
			Schedule: ScheduleConfig{
				Enabled:          true,
				CleanupSpec:      "30 4 * * *",
				AdjacencySpec:    "*/10 * * * *",
				WarmupSpec:       "*/30 * * * *",
				WarmupTolerance:  30 * time.Minute,
				WarmupBatchSize:  200,
				WarmupMaxMembers: 0,
				SweepSpec:        "@every 15m",
				JobTimeout:       10 * time.Minute,
			},
			MaxPageSize:   50,
			RefreshLimit:  5,
			RefreshWindow: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:     "none",
			OTLPEndpoint: "localhost:4317",
			Insecure:     true,
			ServiceName:  "tandem-recommend",
			SampleRatio:  1,
		},
	}
}

// Validate checks process-level fields and the embedded recommendation settings.
func (c *Config) Validate() error {
	// Settings carry their own rules and error messages.
	if err := settings.Validator().StructExcept(c, "Recommend.Settings"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Recommend.Lock.Backend == "redis" && c.Redis.URL == "" {
		return fmt.Errorf("invalid configuration: lock backend redis requires redis.url")
	}
	if c.Recommend.RefreshLimit > 0 && c.Recommend.RefreshWindow <= 0 {
		return fmt.Errorf("invalid configuration: refresh_limit requires a positive refresh_window")
	}
	if err := settings.Validate(&c.Recommend.Settings); err != nil {
		return err
	}
	return nil
}
