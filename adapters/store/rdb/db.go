package rdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kompox/volsaga/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./volsaga.db or sqlite::memory:
//   - sqlite3:<dsn>  alias of sqlite
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	var dsn string
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite:")
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite3:")
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	if dsn == "" {
		dsn = "./volsaga.db"
	}
	dsn = withSQLiteParams(dsn)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteParams make file databases safe for concurrent units of work.
// Transactions take the write lock at BEGIN, so a second writer waits for
// the first instead of failing a lock upgrade with SQLITE_BUSY.
var sqliteParams = []string{"_busy_timeout=5000", "_txlock=immediate"}

// withSQLiteParams appends sqliteParams the dsn does not set already.
func withSQLiteParams(dsn string) string {
	if strings.Contains(dsn, ":memory:") {
		return dsn
	}
	for _, p := range sqliteParams {
		key, _, _ := strings.Cut(p, "=")
		if strings.Contains(dsn, key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p
	}
	return dsn
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&VolumeRow{}, &VolumeRecordRow{}, &OperateLogRow{})
}

// Store bundles the GORM repositories and runs units of work as transactions.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Repositories() *domain.Repositories { return repositoriesFor(s.db) }

// Do runs fn inside a database transaction; any error rolls it back.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repositoriesFor(tx))
	})
}

func repositoriesFor(db *gorm.DB) *domain.Repositories {
	return &domain.Repositories{
		Volume:       NewVolumeRepository(db),
		VolumeRecord: NewVolumeRecordRepository(db),
		OperateLog:   NewOperateLogRepository(db),
	}
}

var _ domain.UnitOfWork = (*Store)(nil)

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// orderClause maps a sort field onto a column. The default order is
// creation time ascending; ties always break on the primary key.
func orderClause(columns map[string]string, field string, asc bool, pk string) string {
	col, ok := columns[field]
	if !ok {
		return "create_time ASC, " + pk + " ASC"
	}
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, create_time %s, %s %s", col, dir, dir, pk, dir)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
