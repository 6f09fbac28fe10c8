// Package connect opens the document store selected by configuration.
package connect

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/streamflex/internal/config"
	"github.com/kailas-cloud/streamflex/internal/db"
	dbMemory "github.com/kailas-cloud/streamflex/internal/db/memory"
	dbMongo "github.com/kailas-cloud/streamflex/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/streamflex/internal/db/redis"
)

// Open builds the store for cfg.Driver.
// For mongo the connection string is resolved before any network access, so a
// missing MONGO_URI surfaces as config.ErrConnectionStringMissing.
func Open(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		uri, err := config.ResolveConnectionString(cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		s, err := dbMongo.NewStore(dbMongo.Config{
			URI:            uri,
			Database:       cfg.Name,
			ConnectTimeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
