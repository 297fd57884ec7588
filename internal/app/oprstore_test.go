package app

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/pkg/common"
)

func openOprStore(t *testing.T) *boltOperatorStore {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0o600, nil)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := newBoltOperatorStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestBoltOprRoundTrip(t *testing.T) {
	s := openOprStore(t)

	if opr, err := s.Get("ghost"); err != nil || opr != nil {
		t.Fatalf("expected miss, got %v %v", opr, err)
	}

	err := s.Save(&domain.SysOpr{
		ID: common.UUIDint64(), Username: "admin", Level: "super", Status: common.ENABLED,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	opr, err := s.Get("admin")
	if err != nil || opr == nil {
		t.Fatalf("get: %v %v", opr, err)
	}
	if err := s.TouchLogin("admin"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	opr, _ = s.Get("admin")
	if opr.LastLogin.IsZero() {
		t.Fatal("expected last login recorded")
	}
}

func TestBoltOprLogPurge(t *testing.T) {
	s := openOprStore(t)

	now := time.Now()
	entries := []domain.SysOprLog{
		{ID: common.UUIDint64(), OprName: "admin", OptAction: "login", OptTime: now.Add(-400 * 24 * time.Hour)},
		{ID: common.UUIDint64(), OprName: "admin", OptAction: "save promo", OptTime: now.Add(-366 * 24 * time.Hour)},
		{ID: common.UUIDint64(), OprName: "admin", OptAction: "delete order", OptTime: now},
	}
	for i := range entries {
		if err := s.Log(&entries[i]); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	if err := s.PurgeLogs(now.Add(-365 * 24 * time.Hour)); err != nil {
		t.Fatalf("purge: %v", err)
	}

	rows, err := s.ListLogs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one surviving entry, got %d", len(rows))
	}
	if rows[0].OptAction != "delete order" {
		t.Fatalf("wrong survivor: %s", rows[0].OptAction)
	}
}
