package rdb

import (
	"path/filepath"
	"testing"

	"github.com/kompox/volsaga/adapters/store/storetest"
	"github.com/kompox/volsaga/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenFromURL("sqlite::memory:")
	if err != nil {
		t.Fatalf("OpenFromURL() error = %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (*domain.Repositories, domain.UnitOfWork) {
		s := openTestStore(t)
		return s.Repositories(), s
	})
}

// TestStoreOnFile covers concurrent units of work on a file database,
// where every connection sees the same data.
func TestStoreOnFile(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (*domain.Repositories, domain.UnitOfWork) {
		db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "volsaga.db"))
		if err != nil {
			t.Fatalf("OpenFromURL() error = %v", err)
		}
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("AutoMigrate() error = %v", err)
		}
		t.Cleanup(func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		s := NewStore(db)
		return s.Repositories(), s
	})
}

func TestWithSQLiteParams(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"./volsaga.db", "./volsaga.db?_busy_timeout=5000&_txlock=immediate"},
		{"file:v.db?cache=shared", "file:v.db?cache=shared&_busy_timeout=5000&_txlock=immediate"},
		{"v.db?_txlock=exclusive", "v.db?_txlock=exclusive&_busy_timeout=5000"},
		{":memory:", ":memory:"},
	}
	for _, tt := range tests {
		if got := withSQLiteParams(tt.in); got != tt.want {
			t.Errorf("withSQLiteParams(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenFromURL(t *testing.T) {
	if _, err := OpenFromURL("postgres://localhost/volsaga"); err == nil {
		t.Errorf("OpenFromURL() accepted an unsupported scheme")
	}
	db, err := OpenFromURL("sqlite3:" + t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("OpenFromURL(sqlite3) error = %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Data", "%data%"},
		{"a_b", `%a\_b%`},
		{"50%", `%50\%%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOrderClause(t *testing.T) {
	if got := orderClause(volumeColumns, "", false, "id"); got != "create_time ASC, id ASC" {
		t.Errorf("default order = %q", got)
	}
	if got := orderClause(volumeColumns, "name", false, "id"); got != "name DESC, create_time DESC, id DESC" {
		t.Errorf("name desc = %q", got)
	}
	if got := orderClause(operateLogColumns, "sagaStatus", true, "saga_operate_id"); got != "saga_status ASC, create_time ASC, saga_operate_id ASC" {
		t.Errorf("status asc = %q", got)
	}
}
