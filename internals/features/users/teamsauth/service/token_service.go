package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okrhub_backend/internals/configs"
	"okrhub_backend/internals/features/users/teamsauth/dto"
	"okrhub_backend/internals/features/users/teamsauth/model"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// IssueTokenPair signs an app access/refresh token pair for a profile. The
// access token carries the profile id as subject plus the principal name so
// the middleware can populate locals without a DB round trip.
func IssueTokenPair(profile *model.TeamsProfileModel) (*dto.TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  profile.ID.String(),
		"upn":  profile.UserPrincipalName,
		"name": profile.DisplayName(),
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	})
	accessToken, err := access.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": profile.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTokenTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RotateTokenPair validates a refresh token and issues a fresh pair for the
// profile it names. Blacklisted refresh tokens are rejected.
func RotateTokenPair(db *gorm.DB, refreshToken string) (*dto.TokenPair, *model.TeamsProfileModel, error) {
	blacklisted, err := IsTokenBlacklisted(db, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if blacklisted {
		return nil, nil, ErrInvalidRefreshToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRefreshToken
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrInvalidRefreshToken
	}

	sub, _ := claims["sub"].(string)
	profile, err := getActiveProfile(db, sub)
	if err != nil {
		return nil, nil, err
	}

	// one-shot refresh tokens: the old one dies with the rotation
	if err := BlacklistToken(db, refreshToken, claims); err != nil {
		return nil, nil, err
	}

	pair, err := IssueTokenPair(profile)
	if err != nil {
		return nil, nil, err
	}
	return pair, profile, nil
}

// BlacklistToken records a token so the middleware rejects it until its own
// expiry would have retired it anyway.
func BlacklistToken(db *gorm.DB, token string, claims jwt.MapClaims) error {
	expiredAt := time.Now().Add(refreshTokenTTL)
	if exp, ok := claims["exp"].(float64); ok {
		expiredAt = time.Unix(int64(exp), 0)
	}
	entry := model.TokenBlacklistModel{Token: token, ExpiredAt: expiredAt}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.Model(&model.TokenBlacklistModel{}).Where("token = ?", token).Count(&count).Error
	return count > 0, err
}

func getActiveProfile(db *gorm.DB, rawID string) (*model.TeamsProfileModel, error) {
	if rawID == "" {
		return nil, ErrInvalidRefreshToken
	}
	var profile model.TeamsProfileModel
	err := db.Where("id = ? AND is_active = ?", rawID, true).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
