// Package sqlitedb opens a migrated, private in-memory database for tests that
// want the real repositories behind a unit of work.
package sqlitedb

import (
	"testing"

	"debtsify-backend/internal/adapter/repository/gormrepo"
	"debtsify-backend/internal/infrastructure/db"
	"debtsify-backend/pkg/id"

	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	log, _ := test.NewNullLogger()
	gdb, err := db.OpenSQLite("file:"+id.NewID32()+"?mode=memory&cache=shared", log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gormrepo.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
