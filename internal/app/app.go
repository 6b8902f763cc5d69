// Package app turns a Config into the concrete uploader, stores and notifier
// shared by the api server and stallctl.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hygieat/internal/auth"
	"hygieat/internal/config"
	"hygieat/internal/db"
	"hygieat/internal/notify"
	"hygieat/internal/storage"
	"hygieat/internal/vendor"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// vendorStore is what every record backend provides.
type vendorStore interface {
	vendor.Writer
	vendor.OrphanLedger
}

type App struct {
	Uploader storage.Uploader
	Vendors  *vendor.Service
	Users    auth.UserRepository

	closers []func(context.Context) error
}

// Build wires the backends named by cfg. Close releases whatever it opened.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{}

	uploader, err := newUploader(ctx, cfg.Media)
	if err != nil {
		return nil, err
	}
	a.Uploader = uploader

	store, err := a.openStore(ctx, cfg.Store, log)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	opts := []vendor.Option{
		vendor.WithLogger(log),
		vendor.WithOrphanLedger(store),
	}

	if cfg.Telegram.Token != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			// registrations still work without the chat feed
			log.Warn("telegram notifier disabled", "error", err)
		} else {
			opts = append(opts, vendor.WithNotifier(notifier))
		}
	}

	a.Vendors = vendor.NewService(uploader, store, opts...)
	return a, nil
}

func newUploader(ctx context.Context, cfg config.MediaConfig) (storage.Uploader, error) {
	switch cfg.Backend {
	case "cloudinary":
		return storage.NewCloudinaryClient(cfg.BaseURL, cfg.CloudName, cfg.UploadPreset, cfg.UploadTimeout), nil
	case "r2":
		client, err := storage.NewR2Client(ctx, storage.R2Options{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("r2 init: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

func (a *App) openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (vendorStore, error) {
	switch cfg.Backend {
	case "memory":
		a.Users = auth.NewInMemoryUserRepository()
		return vendor.NewInMemoryRepository(), nil

	case "postgres":
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		a.Users = auth.NewPostgresUserRepository(pool)
		return vendor.NewPostgresRepository(pool), nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		log.Info("connected to mongo", "database", cfg.MongoDatabase)

		// accounts are not modelled in mongo
		a.Users = auth.NewInMemoryUserRepository()
		return vendor.NewMongoRepository(client.Database(cfg.MongoDatabase)), nil

	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		log.Info("opened sqlite store", "path", cfg.SQLitePath)

		a.Users = auth.NewInMemoryUserRepository()
		return vendor.NewSQLiteRepository(gdb)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
