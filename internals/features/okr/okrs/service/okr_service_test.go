package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"okrhub_backend/internals/features/okr/okrs/dto"
	"okrhub_backend/internals/features/okr/okrs/model"
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
	err = db.AutoMigrate(
		&model.DepartmentModel{},
		&model.BusinessUnitModel{},
		&model.OKRModel{},
		&model.OkrUserMappingModel{},
		&model.BusinessUnitOKRMappingModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createDepartment(t *testing.T, db *gorm.DB, name string) *model.DepartmentModel {
	t.Helper()
	d := &model.DepartmentModel{Name: name}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	return d
}

func baseRequest(departmentID uuid.UUID) dto.CreateOKRRequest {
	return dto.CreateOKRRequest{
		Name:         "Grow recurring revenue",
		DepartmentID: departmentID,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateOKRWithMappings(t *testing.T) {
	db := openTestDB(t)
	svc := NewOKRService(db)
	dep := createDepartment(t, db, "Sales")

	owner := uuid.New()
	helperUser := uuid.New()
	unit := uuid.New()

	req := baseRequest(dep.ID)
	req.UserIDs = []uuid.UUID{owner, helperUser}
	req.PrimaryUserID = &owner
	req.BusinessUnitIDs = []uuid.UUID{unit}

	okr, err := svc.Create(req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(okr.UserMappings) != 2 {
		t.Fatalf("user mappings = %d, want 2", len(okr.UserMappings))
	}
	primaries := 0
	for _, m := range okr.UserMappings {
		if m.IsPrimary {
			primaries++
			if m.UserID != owner {
				t.Errorf("primary set on %s, want %s", m.UserID, owner)
			}
		}
	}
	if primaries != 1 {
		t.Errorf("primary mappings = %d, want 1", primaries)
	}
	if len(okr.BusinessUnitMappings) != 1 {
		t.Fatalf("business unit mappings = %d, want 1", len(okr.BusinessUnitMappings))
	}
	if !okr.Status {
		t.Error("new OKR should start active")
	}
}

func TestAssignUsersReplacesWholesale(t *testing.T) {
	db := openTestDB(t)
	svc := NewOKRService(db)
	dep := createDepartment(t, db, "Sales")

	first := uuid.New()
	req := baseRequest(dep.ID)
	req.UserIDs = []uuid.UUID{first}
	okr, err := svc.Create(req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := uuid.New()
	third := uuid.New()
	updated, err := svc.AssignUsers(okr.ID, []uuid.UUID{second, third}, &second)
	if err != nil {
		t.Fatalf("AssignUsers: %v", err)
	}
	if len(updated.UserMappings) != 2 {
		t.Fatalf("user mappings = %d, want 2", len(updated.UserMappings))
	}
	for _, m := range updated.UserMappings {
		if m.UserID == first {
			t.Error("old assignment survived wholesale replacement")
		}
	}

	// empty set clears everything
	cleared, err := svc.AssignUsers(okr.ID, nil, nil)
	if err != nil {
		t.Fatalf("AssignUsers empty: %v", err)
	}
	if len(cleared.UserMappings) != 0 {
		t.Fatalf("user mappings after clear = %d, want 0", len(cleared.UserMappings))
	}
}

func TestDeleteDetachesChildren(t *testing.T) {
	db := openTestDB(t)
	svc := NewOKRService(db)
	dep := createDepartment(t, db, "Sales")

	parent, err := svc.Create(baseRequest(dep.ID))
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	childReq := baseRequest(dep.ID)
	childReq.Name = "Close ten enterprise deals"
	childReq.ParentOKRID = &parent.ID
	child, err := svc.Create(childReq)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := svc.Delete(parent.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(parent.ID); !errors.Is(err, ErrOKRNotFound) {
		t.Fatalf("deleted parent still loads: %v", err)
	}
	reloaded, err := svc.Get(child.ID)
	if err != nil {
		t.Fatalf("child vanished with parent: %v", err)
	}
	if reloaded.ParentOKRID != nil {
		t.Errorf("child still points at deleted parent: %v", reloaded.ParentOKRID)
	}
}

func TestListFiltersByUser(t *testing.T) {
	db := openTestDB(t)
	svc := NewOKRService(db)
	dep := createDepartment(t, db, "Sales")

	alice := uuid.New()
	bob := uuid.New()

	reqA := baseRequest(dep.ID)
	reqA.UserIDs = []uuid.UUID{alice}
	if _, err := svc.Create(reqA); err != nil {
		t.Fatalf("create A: %v", err)
	}
	reqB := baseRequest(dep.ID)
	reqB.Name = "Reduce churn"
	reqB.UserIDs = []uuid.UUID{bob}
	if _, err := svc.Create(reqB); err != nil {
		t.Fatalf("create B: %v", err)
	}

	mine, err := svc.List(nil, &alice, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Grow recurring revenue" {
		t.Fatalf("filtered list wrong: %+v", mine)
	}

	all, err := svc.List(nil, nil, false)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list = %d, want 2", len(all))
	}
}
