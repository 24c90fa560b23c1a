package main

import (
	"fmt"
	"strings"

	boltstore "github.com/kompox/volsaga/adapters/store/bolt"
	"github.com/kompox/volsaga/adapters/store/cache"
	"github.com/kompox/volsaga/adapters/store/inmem"
	"github.com/kompox/volsaga/adapters/store/rdb"
	"github.com/kompox/volsaga/config/volsagacfg"
	"github.com/kompox/volsaga/domain"
)

// storeHandle is an opened store together with the function releasing it.
type storeHandle struct {
	Repos *domain.Repositories
	UoW   domain.UnitOfWork
	close func() error
}

func (h *storeHandle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// openStore opens the store named by cfg.Store.URL and fronts it with the
// volume cache when enabled.
func openStore(cfg *volsagacfg.Root) (*storeHandle, error) {
	dbURL := cfg.Store.URL
	var h *storeHandle

	switch {
	case strings.HasPrefix(dbURL, "memory:"):
		s := inmem.NewStore()
		h = &storeHandle{Repos: s.Repositories(), UoW: s}

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		s := rdb.NewStore(db)
		h = &storeHandle{Repos: s.Repositories(), UoW: s, close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}}

	case strings.HasPrefix(dbURL, "bolt:"):
		s, err := boltstore.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		h = &storeHandle{Repos: s.Repositories(), UoW: s, close: s.Close}

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}

	if cfg.Cache.Enabled {
		cs, err := cache.Wrap(h.Repos, h.UoW, cfg.Cache.Size, cfg.Cache.TTL.Duration)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.Repos, h.UoW = cs.Repositories(), cs
	}
	return h, nil
}
