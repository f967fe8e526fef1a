package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/backend/internal/domain/directory"
)

// PersonModel is the persistence model backing the people directory projection.
type PersonModel struct {
	BaseModel
	CompanyID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	SiteID      *uuid.UUID     `gorm:"type:uuid;index"`
	DisplayName string         `gorm:"type:varchar(100);not null"`
	Role        directory.Role `gorm:"type:varchar(50);not null;index"`
	Email       string         `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "people"
}

// ToDomain converts the persistence model to a domain Person projection.
func (m *PersonModel) ToDomain() *directory.Person {
	return &directory.Person{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		SiteID:      m.SiteID,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		Email:       m.Email,
	}
}

// SiteModel is the persistence model for company sites.
type SiteModel struct {
	BaseModel
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Archived   bool       `gorm:"not null;default:false"`
	ArchivedAt *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (SiteModel) TableName() string {
	return "sites"
}

// ToDomain converts the persistence model to a domain Site entity.
func (m *SiteModel) ToDomain() *directory.Site {
	return &directory.Site{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		Name:       m.Name,
		Archived:   m.Archived,
		ArchivedAt: m.ArchivedAt,
	}
}
