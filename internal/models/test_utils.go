package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, dst ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glog.Default.LogMode(glog.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if len(dst) == 0 {
		dst = []any{&User{}, &Agent{}, &CallRecord{}, &KnowledgeEntry{}}
	}
	if err := db.AutoMigrate(dst...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, name, email string) *User {
	t.Helper()
	u, err := CreateUser(db, name, email, "secret123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustCreateAgent(t *testing.T, db *gorm.DB, name, email, code string) *Agent {
	t.Helper()
	a, err := CreateAgent(db, name, email, code)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return a
}

func mustCreateCall(t *testing.T, db *gorm.DB, agentID, userID uint, audio string) *CallRecord {
	t.Helper()
	rec, err := CreateCallRecord(db, agentID, userID, "+15550100", 42.5, audio)
	if err != nil {
		t.Fatalf("create call record: %v", err)
	}
	return rec
}
