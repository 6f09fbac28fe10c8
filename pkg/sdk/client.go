package streamflex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/streamflex/internal/db"
	dbMemory "github.com/kailas-cloud/streamflex/internal/db/memory"
	dbMongo "github.com/kailas-cloud/streamflex/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/streamflex/internal/db/redis"
	"github.com/kailas-cloud/streamflex/internal/domain/search/filter"
	domtitle "github.com/kailas-cloud/streamflex/internal/domain/title"
	titlerepo "github.com/kailas-cloud/streamflex/internal/repository/title"
	cataloguc "github.com/kailas-cloud/streamflex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/streamflex/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCollection       = "titles"
)

type catalogUseCase interface {
	Search(ctx context.Context, c filter.Criteria) ([]domtitle.Title, error)
	Add(ctx context.Context, in cataloguc.NewTitle) (domtitle.Title, error)
}

// Client is the streamflex SDK entry point.
type Client struct {
	store     db.Store
	catalog   catalogUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{collection: defaultCollection}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("streamflex: store required (use WithMongo, WithRedis or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("streamflex: store not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMongo:
		if cfg.uri == "" {
			return nil, errors.New("streamflex: mongo connection string is empty")
		}
		s, err := dbMongo.NewStore(dbMongo.Config{URI: cfg.uri, Database: cfg.database})
		if err != nil {
			return nil, fmt.Errorf("streamflex: create mongo store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("streamflex: create redis store: %w", err)
		}
		return s, nil
	case driverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("streamflex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	catalog := cataloguc.New(titlerepo.New(store, cfg.collection)).WithClock(cfg.now)

	return &Client{
		store:     store,
		catalog:   catalog,
		healthSvc: healthuc.New(store, cfg.driver),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Titles returns the title catalog service.
func (c *Client) Titles() *TitleService {
	return &TitleService{svc: c.catalog, obs: c.obs}
}
