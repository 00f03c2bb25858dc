package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okrhub_backend/internals/features/okr/okrs/dto"
	"okrhub_backend/internals/features/okr/okrs/model"
)

var ErrOKRNotFound = errors.New("okr not found")

type OKRService struct {
	DB *gorm.DB
}

func NewOKRService(db *gorm.DB) *OKRService {
	return &OKRService{DB: db}
}

func (s *OKRService) Get(id uuid.UUID) (*model.OKRModel, error) {
	var okr model.OKRModel
	err := s.DB.Preload("UserMappings").Preload("BusinessUnitMappings").
		Where("id = ?", id).First(&okr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOKRNotFound
	}
	if err != nil {
		return nil, err
	}
	return &okr, nil
}

// List filters by department, assigned user, and active status when given.
func (s *OKRService) List(departmentID, userID *uuid.UUID, activeOnly bool) ([]model.OKRModel, error) {
	query := s.DB.Preload("UserMappings").Preload("BusinessUnitMappings").
		Order("start_date DESC")
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	if userID != nil {
		query = query.Where("id IN (?)", s.DB.Model(&model.OkrUserMappingModel{}).
			Select("okr_id").Where("user_id = ?", *userID))
	}
	if activeOnly {
		query = query.Where("status = ?", true)
	}

	var okrs []model.OKRModel
	err := query.Find(&okrs).Error
	return okrs, err
}

// Create inserts the objective plus its initial user and business-unit
// mappings in one transaction.
func (s *OKRService) Create(req dto.CreateOKRRequest) (*model.OKRModel, error) {
	okr := &model.OKRModel{
		Name:         req.Name,
		Description:  req.Description,
		Assumptions:  req.Assumptions,
		ParentOKRID:  req.ParentOKRID,
		DepartmentID: req.DepartmentID,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		Status:       true,
		IsMeasurable: req.IsMeasurable,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(okr).Error; err != nil {
			return err
		}
		if err := replaceUserMappings(tx, okr.ID, req.UserIDs, req.PrimaryUserID); err != nil {
			return err
		}
		return replaceBusinessUnitMappings(tx, okr.ID, req.BusinessUnitIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(okr.ID)
}

func (s *OKRService) Update(id uuid.UUID, updates map[string]interface{}) (*model.OKRModel, error) {
	okr, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&model.OKRModel{}).Where("id = ?", okr.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

// Delete removes the objective with its mappings. Child objectives are
// detached, not deleted.
func (s *OKRService) Delete(id uuid.UUID) error {
	okr, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OKRModel{}).Where("parent_okr_id = ?", okr.ID).
			Update("parent_okr_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("okr_id = ?", okr.ID).Delete(&model.OkrUserMappingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("okr_id = ?", okr.ID).Delete(&model.BusinessUnitOKRMappingModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(okr).Error
	})
}

// AssignUsers replaces the user set wholesale, marking at most one primary.
func (s *OKRService) AssignUsers(id uuid.UUID, userIDs []uuid.UUID, primary *uuid.UUID) (*model.OKRModel, error) {
	okr, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return replaceUserMappings(tx, okr.ID, userIDs, primary)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// AssignBusinessUnits replaces the business-unit set wholesale.
func (s *OKRService) AssignBusinessUnits(id uuid.UUID, unitIDs []uuid.UUID) (*model.OKRModel, error) {
	okr, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return replaceBusinessUnitMappings(tx, okr.ID, unitIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func replaceUserMappings(tx *gorm.DB, okrID uuid.UUID, userIDs []uuid.UUID, primary *uuid.UUID) error {
	if err := tx.Where("okr_id = ?", okrID).Delete(&model.OkrUserMappingModel{}).Error; err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]model.OkrUserMappingModel, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, model.OkrUserMappingModel{
			OkrID:     okrID,
			UserID:    uid,
			IsPrimary: primary != nil && *primary == uid,
		})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func replaceBusinessUnitMappings(tx *gorm.DB, okrID uuid.UUID, unitIDs []uuid.UUID) error {
	if err := tx.Where("okr_id = ?", okrID).Delete(&model.BusinessUnitOKRMappingModel{}).Error; err != nil {
		return err
	}
	if len(unitIDs) == 0 {
		return nil
	}
	rows := make([]model.BusinessUnitOKRMappingModel, 0, len(unitIDs))
	for _, id := range unitIDs {
		rows = append(rows, model.BusinessUnitOKRMappingModel{OkrID: okrID, BusinessUnitID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
