package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/users/teamsauth/model"
	helper "okrhub_backend/internals/helpers"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoGraphToken    = errors.New("no cached Microsoft token for profile")
)

// GetCurrentProfile resolves the caller's profile from the id the auth
// middleware stored in locals.
func GetCurrentProfile(db *gorm.DB, c *fiber.Ctx) (*model.TeamsProfileModel, error) {
	profileID, err := helper.GetProfileIDFromToken(c)
	if err != nil {
		return nil, err
	}
	return GetProfileByID(db, profileID)
}

func GetProfileByID(db *gorm.DB, id uuid.UUID) (*model.TeamsProfileModel, error) {
	var profile model.TeamsProfileModel
	err := db.Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func GetProfileByTeamsID(db *gorm.DB, teamsID string) (*model.TeamsProfileModel, error) {
	var profile model.TeamsProfileModel
	err := db.Where("teams_id = ?", teamsID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListProfiles pages through active profiles, optionally filtered by a
// case-insensitive name/email search.
func ListProfiles(db *gorm.DB, search string, limit, offset int) ([]model.TeamsProfileModel, int64, error) {
	query := db.Model(&model.TeamsProfileModel{}).Where("is_active = ?", true)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("user_name ILIKE ? OR user_principal_name ILIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.TeamsProfileModel
	err := query.Order("user_name").Limit(limit).Offset(offset).Find(&profiles).Error
	return profiles, total, err
}

// UpsertFromGraph creates or refreshes the local profile for a Graph user,
// including the manager link when Graph exposes one.
func UpsertFromGraph(db *gorm.DB, user *GraphUser, manager *GraphUser, rawPayload []byte) (*model.TeamsProfileModel, error) {
	var managerID *string
	if manager != nil && manager.ID != "" {
		managerID = &manager.ID
	}

	var profile model.TeamsProfileModel
	err := db.Where("teams_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = model.TeamsProfileModel{
			TeamsID:           user.ID,
			UserName:          user.DisplayName,
			UserPrincipalName: user.Email(),
			Department:        user.Department,
			JobTitle:          user.JobTitle,
			ManagerID:         managerID,
			IsActive:          true,
			GraphPayload:      datatypes.JSON(rawPayload),
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
		log.Printf("[INFO] created profile for %s (%s)", profile.UserPrincipalName, profile.TeamsID)
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"user_name":           user.DisplayName,
		"user_principal_name": user.Email(),
		"department":          user.Department,
		"job_title":           user.JobTitle,
		"is_active":           true,
	}
	if managerID != nil {
		updates["manager_id"] = *managerID
	}
	if len(rawPayload) > 0 {
		updates["graph_payload"] = datatypes.JSON(rawPayload)
	}
	if err := db.Model(&profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureGraphToken returns a usable Graph access token for the profile,
// exchanging the cached refresh token when the stored one is stale.
func EnsureGraphToken(db *gorm.DB, profile *model.TeamsProfileModel) (string, error) {
	if profile.IsTokenValid() {
		return profile.AccessToken, nil
	}
	if profile.RefreshToken == "" {
		return "", ErrNoGraphToken
	}
	tokens, err := RefreshAccessToken(profile.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := profile.UpdateTokens(db, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn); err != nil {
		return "", err
	}
	return profile.AccessToken, nil
}

// SyncFromGraph refetches /me and the manager link with the cached tokens,
// so a profile can pick up directory changes between logins.
func SyncFromGraph(db *gorm.DB, profile *model.TeamsProfileModel) (*model.TeamsProfileModel, error) {
	token, err := EnsureGraphToken(db, profile)
	if err != nil {
		return nil, err
	}
	user, raw, err := ValidateTeamsToken(token)
	if err != nil {
		return nil, err
	}
	manager, err := GetManagerInfo(user.ID, token)
	if err != nil {
		// manager resolution is best effort here, same as at login
		log.Printf("[WARN] manager lookup failed during sync: %v", err)
		manager = nil
	}
	return UpsertFromGraph(db, user, manager, raw)
}

// DeactivateProfile soft-disables login and team listings without losing the
// user's historical forms and reviews.
func DeactivateProfile(db *gorm.DB, id uuid.UUID) error {
	res := db.Model(&model.TeamsProfileModel{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
