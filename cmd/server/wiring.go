package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"tandem/internal/platform/config"
	"tandem/internal/platform/kafka"
	"tandem/internal/platform/postgres"
	"tandem/internal/platform/redis"
	"tandem/internal/recommend/bucket"
	"tandem/internal/recommend/events"
	"tandem/internal/recommend/exclusion"
	"tandem/internal/recommend/lock"
	recmetrics "tandem/internal/recommend/metrics"
	"tandem/internal/recommend/ports"
	"tandem/internal/recommend/ratelimit"
	"tandem/internal/recommend/service"
	"tandem/internal/recommend/settings"
	"tandem/internal/recommend/store/adjacency"
	"tandem/internal/recommend/store/history"
	"tandem/internal/recommend/store/member"
	"tandem/internal/recommend/store/relationship"
	settingsstore "tandem/internal/recommend/store/settings"
	"tandem/migrations"
	"tandem/pkg/platform/circuit"
)

// application holds the wired collaborators the server and scheduler share.
type application struct {
	settings  *settings.Manager
	service   *service.Service
	adjacency *adjacency.Cache
	metrics   *recmetrics.Metrics
	limiter   *ratelimit.Window

	db      *sql.DB
	redis   *redis.Client
	kafka   *kgo.Client
	closers []func()
}

// relationships covers the three read-only relationship sources.
type relationships interface {
	ports.BlockStore
	ports.InterestStore
	ports.ConversationStore
}

type stores struct {
	members   ports.MemberStore
	relations relationships
	history   ports.HistoryStore
	adjacency adjacency.Loader
	settings  settings.Store
	tx        ports.TxManager
}

func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	app := &application{
		metrics: recmetrics.New(),
		limiter: ratelimit.NewWindow(cfg.Recommend.RefreshLimit, cfg.Recommend.RefreshWindow),
	}
	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	st, err := app.openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	app.settings, err = settings.NewManager(cfg.Recommend.Settings,
		settings.WithStore(st.settings),
		settings.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := app.settings.LoadPersisted(ctx); err != nil {
		return nil, err
	}

	app.adjacency, err = adjacency.NewCache(ctx, st.adjacency, adjacency.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("load region adjacency: %w", err)
	}

	locker, err := app.newLocker(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	publisher, err := app.newPublisher(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	resolver := exclusion.New(st.history, st.relations, st.relations, st.relations,
		exclusion.WithLogger(log),
		exclusion.WithMetrics(app.metrics),
	)
	selector := bucket.New(st.members, app.adjacency,
		bucket.WithLogger(log),
		bucket.WithMetrics(app.metrics),
	)
	app.service, err = service.New(app.settings, st.members, st.history, resolver, selector,
		service.WithLogger(log),
		service.WithMetrics(app.metrics),
		service.WithLocker(locker),
		service.WithTxManager(st.tx),
		service.WithPublisher(publisher),
		service.WithMaxPageSize(cfg.Recommend.MaxPageSize),
	)
	if err != nil {
		return nil, err
	}

	ok = true
	return app, nil
}

// openStores uses Postgres when a database URL is configured and in-memory
// stores otherwise.
func (a *application) openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Database.URL == "" {
		log.Warn("database url not set; using in-memory stores")
		return &stores{
			members:   member.NewInMemoryStore(),
			relations: relationship.NewInMemoryStore(),
			history:   history.NewInMemoryStore(),
			adjacency: adjacency.NewInMemoryStore(adjacency.KoreaRegions()),
			settings:  settingsstore.NewInMemoryStore(),
			tx:        service.DirectTx{Timeout: cfg.Database.TxTimeout},
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() { _ = db.Close() })

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
			return nil, err
		}
	}
	adjacencyStore := adjacency.NewPostgres(db)
	if err := adjacencyStore.Seed(ctx, adjacency.KoreaRegions()); err != nil {
		return nil, err
	}

	log.Info("postgres stores ready")
	return &stores{
		members:   member.NewPostgres(db),
		relations: relationship.NewPostgres(db),
		history:   history.NewPostgres(db),
		adjacency: adjacencyStore,
		settings:  settingsstore.NewPostgres(db),
		tx:        postgres.NewTxRunner(db, cfg.Database.TxTimeout),
	}, nil
}

// newLocker always serializes in-process; the redis backend adds a
// cross-instance lease behind the local mutex.
func (a *application) newLocker(ctx context.Context, cfg *config.Config, log *slog.Logger) (ports.Locker, error) {
	lc := cfg.Recommend.Lock
	local := lock.NewKeyedMutex(lock.WithWaitTimeout(lc.WaitTimeout))
	if lc.Backend != "redis" {
		return local, nil
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.closers = append(a.closers, func() { _ = client.Close() })

	distributed := lock.NewRedisLocker(client.Client,
		lock.WithTTL(lc.TTL),
		lock.WithRetryInterval(lc.RetryInterval),
		lock.WithRedisWaitTimeout(lc.WaitTimeout),
		lock.WithLogger(log),
	)
	log.Info("redis lock backend enabled", "ttl", lc.TTL)
	return lock.Chain{local, distributed}, nil
}

func (a *application) newPublisher(ctx context.Context, cfg *config.Config, log *slog.Logger) (ports.EventPublisher, error) {
	client, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return events.NewLogPublisher(log), nil
	}
	a.kafka = client
	a.closers = append(a.closers, client.Close)

	if cfg.Kafka.CreateTopic {
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return nil, err
		}
	}
	log.Info("kafka publisher enabled", "topic", cfg.Kafka.Topic)
	breaker := circuit.New("kafka",
		circuit.WithFailureThreshold(cfg.Kafka.BreakerThreshold),
		circuit.WithCooldown(cfg.Kafka.BreakerCooldown),
	)
	return events.NewBreakerPublisher(
		events.NewKafkaPublisher(client, cfg.Kafka.Topic, events.WithTimeout(cfg.Kafka.ProduceTimeout)),
		events.NewLogPublisher(log),
		breaker,
		log,
	), nil
}

func (a *application) health(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if a.kafka != nil {
		if err := a.kafka.Ping(ctx); err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
	}
	return nil
}

// close releases clients in reverse order of acquisition.
func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
