// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	organizationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/organizations"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/indexes"
	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	opts.SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and the seed organization.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return ensureSeedOrganization(ctx, deps, appCfg.SeedOrganization, logger)
}

// ensureSeedOrganization creates an organization named name when the
// collection is empty, so the first user has something to sign in to.
func ensureSeedOrganization(ctx context.Context, deps DBDeps, name string, logger *zap.Logger) error {
	if name == "" {
		return nil
	}
	orgs := organizationstore.New(deps.MongoDatabase)
	existing, err := orgs.List(ctx)
	if err != nil {
		return fmt.Errorf("list organizations: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	org, err := orgs.Create(ctx, name, primitive.NilObjectID)
	if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		// Another instance seeded it first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}
	logger.Info("seeded organization", zap.String("org_id", org.ID.Hex()), zap.String("name", org.Name))
	return nil
}

// ConnectScannerDB is ConnectDB + EnsureSchema for the standalone scanner.
// It never fails: when MongoDB cannot be reached the error is logged and the
// returned DBDeps has no database, so every scan finds nothing to do and
// the schedule keeps running.
func ConnectScannerDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) DBDeps {
	deps, err := ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("database not initialized; scans will find nothing to do", zap.Error(err))
		return DBDeps{}
	}
	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		logger.Warn("schema setup failed; scanning anyway", zap.Error(err))
	}
	return deps
}
