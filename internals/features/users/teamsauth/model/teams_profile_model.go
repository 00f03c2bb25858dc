package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeamsProfileModel maps the teams_profiles table: one row per directory user,
// created on first SSO login or administratively.
//
// ManagerID is a denormalized directory id, not a foreign key. The manager's own
// profile may not exist locally yet, so it is resolved lazily at the moment a
// review has to be created.
type TeamsProfileModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamsID  string    `gorm:"size:255;uniqueIndex" json:"teams_id"`
	TenantID string    `gorm:"size:255" json:"tenant_id,omitempty"`

	UserName          string  `gorm:"size:255" json:"user_name"`
	UserPrincipalName string  `gorm:"size:255;index" json:"teams_user_principal_name"`
	Department        string  `gorm:"size:255" json:"department"`
	JobTitle          string  `gorm:"size:255" json:"job_title"`
	ManagerID         *string `gorm:"size:255;index" json:"manager_id,omitempty"`
	ProfilePhotoURL   string  `gorm:"size:1024" json:"teams_profile_photo,omitempty"`
	IsActive          bool    `gorm:"not null;default:true" json:"is_active"`

	// Raw Graph /me payload from the last login, kept for admin troubleshooting.
	GraphPayload datatypes.JSON `json:"-"`

	// Cached Microsoft tokens for Graph calls on the user's behalf.
	AccessToken  string     `gorm:"type:text" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	TokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TeamsProfileModel) TableName() string {
	return "teams_profiles"
}

func (p *TeamsProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the directory display name over the principal name.
func (p *TeamsProfileModel) DisplayName() string {
	if p.UserName != "" {
		return p.UserName
	}
	return p.UserPrincipalName
}

// UpdateTokens stores a fresh token pair and its expiry.
func (p *TeamsProfileModel) UpdateTokens(db *gorm.DB, accessToken, refreshToken string, expiresIn int) error {
	p.AccessToken = accessToken
	if refreshToken != "" {
		p.RefreshToken = refreshToken
	}
	expiry := time.Now().Add(time.Duration(expiresIn) * time.Second)
	p.TokenExpiry = &expiry
	return db.Model(p).Updates(map[string]interface{}{
		"access_token":  p.AccessToken,
		"refresh_token": p.RefreshToken,
		"token_expiry":  p.TokenExpiry,
	}).Error
}

// IsTokenValid keeps a 5 minute buffer so the token stays usable mid-request.
func (p *TeamsProfileModel) IsTokenValid() bool {
	if p.AccessToken == "" || p.TokenExpiry == nil {
		return false
	}
	return time.Now().Add(5 * time.Minute).Before(*p.TokenExpiry)
}
