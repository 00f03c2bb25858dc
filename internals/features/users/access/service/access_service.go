package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okrhub_backend/internals/features/users/access/dto"
	"okrhub_backend/internals/features/users/access/model"
)

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// HasCapability answers whether a capability row exists for the user.
func (s *AccessService) HasCapability(userID uuid.UUID, accessID int) (bool, error) {
	var count int64
	err := s.DB.Model(&model.UserAccessModel{}).
		Where("user_id = ? AND access_id = ?", userID, accessID).
		Count(&count).Error
	return count > 0, err
}

// Flags reads the whole capability set in one query.
func (s *AccessService) Flags(userID uuid.UUID) (*dto.AccessFlags, error) {
	var rows []model.UserAccessModel
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	flags := &dto.AccessFlags{}
	for _, row := range rows {
		switch row.AccessID {
		case model.AccessAddObjective:
			flags.AddObjectiveAccess = true
		case model.AccessAdminMaster:
			flags.AdminMasterAccess = true
		}
	}
	return flags, nil
}

// Grant is idempotent: the unique (user, capability) index absorbs replays.
func (s *AccessService) Grant(tx *gorm.DB, userID uuid.UUID, accessID int) error {
	row := model.UserAccessModel{UserID: userID, AccessID: accessID}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// Replace swaps the user's capability set atomically: revoke everything, then
// grant the requested set.
func (s *AccessService) Replace(userID uuid.UUID, req dto.UpdateAccessRequest) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserAccessModel{}).Error; err != nil {
			return err
		}
		if req.AddObjectiveAccess {
			if err := s.Grant(tx, userID, model.AccessAddObjective); err != nil {
				return err
			}
		}
		if req.AdminMasterAccess {
			if err := s.Grant(tx, userID, model.AccessAdminMaster); err != nil {
				return err
			}
		}
		return nil
	})
}
