package container

import (
	"context"
	"fmt"

	"epsol/importer/internal/client"
	"epsol/importer/internal/config"
	"epsol/importer/internal/parser"
	"epsol/importer/internal/proxy"
	"epsol/importer/internal/repository"
	"epsol/importer/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Storage drivers accepted in storage.driver.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverLog      = "log"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.EpsolClient
	Repository repository.EquipmentRepository

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. On failure every
// resource opened so far is released.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
	}

	if err := c.wire(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	p, err := parser.New(c.Config.Epsol.BaseURL, c.Config.Epsol.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize parser: %w", err)
	}

	proxySupplier, err := proxy.NewProxySupplier(ctx, c.Config.Epsol.Proxies, p.CatalogURL())
	if err != nil {
		return fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}

	c.Client = client.NewEpsolClient(c.Config.Epsol, p, proxySupplier)

	c.Repository, err = c.newRepository(ctx)
	if err != nil {
		return err
	}

	c.Service = service.NewService(
		c.Repository,
		c.Client,
		c.Config.Epsol.CatalogLimit,
		c.Config.Epsol.ListingLimit,
	)

	return nil
}

func (c *Container) newRepository(ctx context.Context) (repository.EquipmentRepository, error) {
	switch c.Config.Storage.Driver {
	case DriverPostgres, "":
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				c.Config.Database.Host,
				c.Config.Database.Port,
				c.Config.Database.User,
				c.Config.Database.Password,
				c.Config.Database.Name,
				c.Config.Database.SSLMode,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		c.db = db

		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}

		log.Info("✅ Connected to Postgres successfully")
		return repository.NewEquipmentRepository(db), nil

	case DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.Database,
		})
		c.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		log.Info("✅ Connected to Redis successfully")
		return repository.NewStreamRepository(rdb, c.Config.Redis.Stream), nil

	case DriverLog:
		log.Info("📝 Records will be logged, not stored")
		return repository.NewLogRepository(log.StandardLogger()), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
	}
}

// Run imports the catalog. A nil startURLs means a full crawl from the catalog root.
func (c *Container) Run(ctx context.Context, startURLs []string) (int, error) {
	return c.Service.Import(ctx, startURLs)
}

// Close releases the HTTP client and storage connections.
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	var err error
	if c.Client != nil {
		err = c.Client.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if cerr := c.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	log.Debug("Container shut down successfully")
	return err
}
