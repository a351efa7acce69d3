package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/config"
	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Backend names reported by Stores.Backend
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Stores bundles the repositories of every resource on one backend
type Stores struct {
	Products   Repository[models.Product]
	Categories Repository[models.Category]
	Backend    string

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// NewMemoryStores creates empty in-memory repositories
func NewMemoryStores() *Stores {
	return &Stores{
		Products:   NewInMemoryRepository[models.Product](),
		Categories: NewInMemoryRepository[models.Category](),
		Backend:    BackendMemory,
	}
}

// NewGormStores creates repositories on an open GORM connection and creates
// the products and categories tables if they are missing
func NewGormStores(db *gorm.DB, backend string) (*Stores, error) {
	if err := db.AutoMigrate(&models.Product{}, &models.Category{}); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	return &Stores{
		Products:   NewGormRepository[models.Product](db),
		Categories: NewGormRepository[models.Category](db),
		Backend:    backend,
		ping:       sqlDB.PingContext,
		close:      func(context.Context) error { return sqlDB.Close() },
	}, nil
}

// NewMongoStores creates repositories on the given database and ensures indexes
func NewMongoStores(ctx context.Context, client *mongo.Client, database string) (*Stores, error) {
	db := client.Database(database)
	products := NewMongoRepository[models.Product](db, "products")
	categories := NewMongoRepository[models.Category](db, "categories")

	for _, ensure := range []func(context.Context) error{products.EnsureIndexes, categories.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}

	return &Stores{
		Products:   products,
		Categories: categories,
		Backend:    BackendMongo,
		ping:       func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		close:      client.Disconnect,
	}, nil
}

// Open connects to the backend named by the store URL scheme
func Open(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*Stores, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	url := strings.TrimSpace(cfg.URL)
	switch {
	case url == BackendMemory || strings.HasPrefix(url, "memory://"):
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemoryStores(), nil

	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}
		log.Info("connected to mongodb", "database", cfg.Database)
		return NewMongoStores(ctx, client, cfg.Database)

	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err := OpenGorm(postgres.Open(url))
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info("connected to postgres")
		return NewGormStores(db, BackendPostgres)

	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		db, err := OpenGorm(sqlite.Open(path))
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		log.Info("opened sqlite database", "path", path)
		return NewGormStores(db, BackendSQLite)
	}

	return nil, fmt.Errorf("unsupported store URL %q (want mongodb://, postgres://, sqlite:// or memory://)", url)
}

// OpenGorm opens a GORM connection whose timestamps match the other backends
func OpenGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: now,
	})
}

// Ping reports whether the backend is reachable
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
