package service

import (
	"testing"

	"okrhub_backend/internals/features/users/teamsauth/model"
)

func TestUpsertFromGraphCreatesThenUpdates(t *testing.T) {
	db := openTestDB(t)

	user := &GraphUser{
		ID:                "graph-1",
		DisplayName:       "Alice Doe",
		Mail:              "alice@example.com",
		UserPrincipalName: "alice@corp.example.com",
		Department:        "Finance",
		JobTitle:          "Analyst",
	}
	manager := &GraphUser{ID: "graph-2", DisplayName: "Mallory"}

	profile, err := UpsertFromGraph(db, user, manager, []byte(`{"id":"graph-1"}`))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if profile.TeamsID != "graph-1" || profile.UserName != "Alice Doe" {
		t.Fatalf("created profile wrong: %+v", profile)
	}
	if profile.ManagerID == nil || *profile.ManagerID != "graph-2" {
		t.Fatalf("manager link not stored: %v", profile.ManagerID)
	}
	// mail wins over principal name
	if profile.UserPrincipalName != "alice@example.com" {
		t.Fatalf("principal = %q", profile.UserPrincipalName)
	}

	user.Department = "Treasury"
	again, err := UpsertFromGraph(db, user, nil, nil)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != profile.ID {
		t.Fatal("second upsert created a new row")
	}

	var count int64
	db.Model(&model.TeamsProfileModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("profiles = %d, want 1", count)
	}

	reloaded, err := GetProfileByTeamsID(db, "graph-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Department != "Treasury" {
		t.Errorf("department not refreshed: %q", reloaded.Department)
	}
	// a nil manager on re-login keeps the existing link
	if reloaded.ManagerID == nil || *reloaded.ManagerID != "graph-2" {
		t.Errorf("manager link lost on re-login: %v", reloaded.ManagerID)
	}
}

func TestEnsureGraphTokenUsesCachedTokenInsideBuffer(t *testing.T) {
	db := openTestDB(t)

	profile, err := UpsertFromGraph(db, &GraphUser{ID: "graph-3", DisplayName: "Bob"}, nil, nil)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// expires in an hour, well outside the 5 minute buffer
	if err := profile.UpdateTokens(db, "cached-token", "refresh-token", 3600); err != nil {
		t.Fatalf("update tokens: %v", err)
	}

	token, err := EnsureGraphToken(db, profile)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if token != "cached-token" {
		t.Errorf("token = %q, want cached-token", token)
	}
}

func TestEnsureGraphTokenFailsWithoutRefreshToken(t *testing.T) {
	db := openTestDB(t)

	profile, err := UpsertFromGraph(db, &GraphUser{ID: "graph-4", DisplayName: "Eve"}, nil, nil)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// expired token and nothing cached to refresh with
	if err := profile.UpdateTokens(db, "stale-token", "", -10); err != nil {
		t.Fatalf("update tokens: %v", err)
	}

	if _, err := EnsureGraphToken(db, profile); err != ErrNoGraphToken {
		t.Fatalf("err = %v, want ErrNoGraphToken", err)
	}
}
