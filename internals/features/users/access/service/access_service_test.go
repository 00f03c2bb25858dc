package service

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"okrhub_backend/internals/features/users/access/dto"
	"okrhub_backend/internals/features/users/access/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.UserAccessModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFlagsDefaultToDenied(t *testing.T) {
	svc := NewAccessService(openTestDB(t))
	flags, err := svc.Flags(uuid.New())
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if flags.AddObjectiveAccess || flags.AdminMasterAccess {
		t.Fatalf("unknown user has access: %+v", flags)
	}
}

func TestReplaceSwapsCapabilitySet(t *testing.T) {
	svc := NewAccessService(openTestDB(t))
	userID := uuid.New()

	if err := svc.Replace(userID, dto.UpdateAccessRequest{AddObjectiveAccess: true, AdminMasterAccess: true}); err != nil {
		t.Fatalf("Replace grant: %v", err)
	}
	flags, _ := svc.Flags(userID)
	if !flags.AddObjectiveAccess || !flags.AdminMasterAccess {
		t.Fatalf("grants not applied: %+v", flags)
	}

	if err := svc.Replace(userID, dto.UpdateAccessRequest{AddObjectiveAccess: true}); err != nil {
		t.Fatalf("Replace revoke: %v", err)
	}
	flags, _ = svc.Flags(userID)
	if !flags.AddObjectiveAccess {
		t.Error("add-objective dropped unexpectedly")
	}
	if flags.AdminMasterAccess {
		t.Error("admin-master survived replacement")
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessService(db)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.Grant(db, userID, model.AccessAddObjective); err != nil {
			t.Fatalf("Grant #%d: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&model.UserAccessModel{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}

	ok, err := svc.HasCapability(userID, model.AccessAddObjective)
	if err != nil || !ok {
		t.Fatalf("HasCapability = %v, %v; want true, nil", ok, err)
	}
}
