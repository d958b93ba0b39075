// Package app assembles the purchase order service from configuration.
package app

import (
	"fmt"

	"github.com/Yahiahu/SCM-sub000/internal/cache"
	"github.com/Yahiahu/SCM-sub000/internal/client"
	"github.com/Yahiahu/SCM-sub000/internal/config"
	"github.com/Yahiahu/SCM-sub000/internal/repository"
	"github.com/Yahiahu/SCM-sub000/internal/repository/postgres"
	"github.com/Yahiahu/SCM-sub000/internal/service"
	"github.com/rs/zerolog/log"
)

// NewSource opens the record source selected by SOURCE_DRIVER. The returned
// func releases it and is never nil.
func NewSource(cfg *config.Config) (repository.POSource, func(), error) {
	switch cfg.Source.Driver {
	case "", config.SourceREST:
		c, err := client.New(cfg.Backend)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("base_url", cfg.Backend.BaseURL).Msg("Using REST backend source")
		return c, func() {}, nil
	case config.SourcePostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Using postgres source")
		return postgres.NewPOSource(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

// cacheNamespace keeps dashboards from different sources apart in a shared
// redis.
func cacheNamespace(cfg *config.Config) string {
	if cfg.Source.Driver == config.SourcePostgres {
		return config.SourcePostgres + ":" + cfg.Database.Host + "/" + cfg.Database.DBName
	}
	return config.SourceREST + ":" + cfg.Backend.BaseURL
}

// NewPOService wires source, cache and concurrency settings together.
func NewPOService(cfg *config.Config, opts ...service.Option) (*service.POService, func(), error) {
	source, closeSource, err := NewSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache, cacheNamespace(cfg))
	if err != nil {
		log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	opts = append([]service.Option{service.WithMaxConcurrency(cfg.Source.MaxConcurrency)}, opts...)
	return service.NewPOService(source, dashboardCache, opts...), closeSource, nil
}
