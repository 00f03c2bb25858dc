package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DepartmentModel) TableName() string { return "departments" }

func (d *DepartmentModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type BusinessUnitModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"business_unit_id"`
	Name string    `gorm:"size:100;not null" json:"business_unit_name" validate:"required,max=100"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BusinessUnitModel) TableName() string { return "business_units" }

func (b *BusinessUnitModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// OKRModel is a hierarchical objective. ParentOKRID forms the tree; the
// department link is mandatory, user and business-unit links live in the
// mapping tables and are replaced wholesale by the assign endpoints.
type OKRModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"okr_id"`
	Name         string     `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Description  string     `gorm:"type:text" json:"description"`
	Assumptions  string     `gorm:"type:text" json:"assumptions,omitempty"`
	ParentOKRID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_okr,omitempty"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"department" validate:"required"`

	StartDate       time.Time `gorm:"not null" json:"start_date"`
	DueDate         time.Time `gorm:"not null" json:"due_date"`
	Status          bool      `gorm:"not null;default:true" json:"status"`
	ProgressPercent float64   `gorm:"type:decimal(5,2);not null;default:0" json:"progress_percent"`
	IsMeasurable    bool      `gorm:"not null;default:false" json:"is_measurable"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserMappings         []OkrUserMappingModel         `gorm:"foreignKey:OkrID" json:"user_mappings,omitempty"`
	BusinessUnitMappings []BusinessUnitOKRMappingModel `gorm:"foreignKey:OkrID" json:"business_unit_mappings,omitempty"`
}

func (OKRModel) TableName() string { return "okrs" }

func (o *OKRModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OkrUserMappingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OkrID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_okr_user_mapping" json:"okr_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_okr_user_mapping" json:"user_id"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OkrUserMappingModel) TableName() string { return "okr_user_mappings" }

func (m *OkrUserMappingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type BusinessUnitOKRMappingModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OkrID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_okr_business_unit_mapping" json:"okr_id"`
	BusinessUnitID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_okr_business_unit_mapping" json:"business_unit_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BusinessUnitOKRMappingModel) TableName() string { return "business_unit_okr_mappings" }

func (m *BusinessUnitOKRMappingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
