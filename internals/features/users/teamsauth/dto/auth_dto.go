package dto

import (
	"time"

	"github.com/google/uuid"

	"okrhub_backend/internals/features/users/teamsauth/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// TeamsAuthRequest carries a Microsoft Graph access token obtained by the
// Teams client (SSO) or the browser redirect flow.
type TeamsAuthRequest struct {
	Token string `json:"token" validate:"required"`
}

// CallbackRequest is the browser OAuth flow variant: the frontend exchanges
// the authorization code itself and posts the resulting tokens here.
type CallbackRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ProfileResponse struct {
	ID                uuid.UUID `json:"profile_id"`
	TeamsID           string    `json:"teams_id"`
	UserName          string    `json:"user_name"`
	UserPrincipalName string    `json:"user_principal_name"`
	Department        string    `json:"department,omitempty"`
	JobTitle          string    `json:"job_title,omitempty"`
	ManagerID         string    `json:"manager_id,omitempty"`
	ProfilePhotoURL   string    `json:"profile_photo_url,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

type AuthResponse struct {
	Tokens TokenPair       `json:"tokens"`
	User   ProfileResponse `json:"user"`
}

func NewProfileResponse(p *model.TeamsProfileModel) ProfileResponse {
	resp := ProfileResponse{
		ID:                p.ID,
		TeamsID:           p.TeamsID,
		UserName:          p.UserName,
		UserPrincipalName: p.UserPrincipalName,
		Department:        p.Department,
		JobTitle:          p.JobTitle,
		ProfilePhotoURL:   p.ProfilePhotoURL,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
	}
	if p.ManagerID != nil {
		resp.ManagerID = *p.ManagerID
	}
	return resp
}
