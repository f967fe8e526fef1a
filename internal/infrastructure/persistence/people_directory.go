package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opsboard/backend/internal/domain/directory"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
)

// GormPeopleDirectory implements read-only access to the people directory
type GormPeopleDirectory struct {
	db *gorm.DB
}

// NewGormPeopleDirectory creates a new GormPeopleDirectory
func NewGormPeopleDirectory(db *gorm.DB) *GormPeopleDirectory {
	return &GormPeopleDirectory{db: db}
}

// ListPeople returns people in the company matching the query, ordered by display name
func (d *GormPeopleDirectory) ListPeople(ctx context.Context, companyID uuid.UUID, query directory.PersonQuery) ([]directory.Person, error) {
	var pModels []models.PersonModel
	if err := d.applyQuery(ctx, companyID, query).
		Order("display_name ASC").
		Find(&pModels).Error; err != nil {
		return nil, err
	}
	people := make([]directory.Person, len(pModels))
	for i, model := range pModels {
		people[i] = *model.ToDomain()
	}
	return people, nil
}

// CountPeople returns the number of people matching the query
func (d *GormPeopleDirectory) CountPeople(ctx context.Context, companyID uuid.UUID, query directory.PersonQuery) (int64, error) {
	var count int64
	if err := d.applyQuery(ctx, companyID, query).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctRoles returns the distinct set of role values actually present
// in the company
func (d *GormPeopleDirectory) DistinctRoles(ctx context.Context, companyID uuid.UUID) ([]directory.Role, error) {
	var roles []directory.Role
	if err := d.db.WithContext(ctx).Model(&models.PersonModel{}).
		Where("company_id = ?", companyID).
		Distinct("role").
		Order("role ASC").
		Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (d *GormPeopleDirectory) applyQuery(ctx context.Context, companyID uuid.UUID, query directory.PersonQuery) *gorm.DB {
	q := d.db.WithContext(ctx).Model(&models.PersonModel{}).
		Where("company_id = ?", companyID)
	if query.SiteID != nil {
		q = q.Where("site_id = ?", *query.SiteID)
	}
	if len(query.Roles) > 0 {
		q = q.Where("role IN ?", query.Roles)
	}
	return q
}
