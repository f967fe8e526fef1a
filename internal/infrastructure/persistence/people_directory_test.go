package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/opsboard/backend/internal/domain/directory"
)

func setupPeopleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE people (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			company_id TEXT NOT NULL,
			site_id TEXT,
			display_name TEXT NOT NULL,
			role TEXT NOT NULL,
			email TEXT NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func seedPerson(t *testing.T, db *gorm.DB, companyID uuid.UUID, siteID *uuid.UUID, name string, role directory.Role) {
	t.Helper()
	var site interface{}
	if siteID != nil {
		site = siteID.String()
	}
	err := db.Exec(`
		INSERT INTO people (id, created_at, updated_at, company_id, site_id, display_name, role, email)
		VALUES (?, datetime('now'), datetime('now'), ?, ?, ?, ?, ?)
	`, uuid.New().String(), companyID.String(), site, name, string(role), name+"@example.com").Error
	require.NoError(t, err)
}

func TestGormPeopleDirectory_ListPeople_SiteAndRoleFilter(t *testing.T) {
	db := setupPeopleTestDB(t)
	dir := NewGormPeopleDirectory(db)
	ctx := context.Background()

	companyID := uuid.New()
	siteID := uuid.New()
	otherSite := uuid.New()

	seedPerson(t, db, companyID, &siteID, "Avery Manager", directory.RoleManager)
	seedPerson(t, db, companyID, &siteID, "Blake Member", directory.RoleTeamMember)
	seedPerson(t, db, companyID, &otherSite, "Casey Manager", directory.RoleManager)
	seedPerson(t, db, companyID, nil, "Drew Owner", directory.RoleOwner)

	people, err := dir.ListPeople(ctx, companyID, directory.PersonQuery{
		SiteID: &siteID,
		Roles:  directory.ApprovalRoles(),
	})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Avery Manager", people[0].DisplayName)

	companyWide, err := dir.ListPeople(ctx, companyID, directory.PersonQuery{
		Roles: directory.ApprovalRoles(),
	})
	require.NoError(t, err)
	assert.Len(t, companyWide, 3)
}

func TestGormPeopleDirectory_ListPeople_OrderedByDisplayName(t *testing.T) {
	db := setupPeopleTestDB(t)
	dir := NewGormPeopleDirectory(db)
	ctx := context.Background()

	companyID := uuid.New()
	seedPerson(t, db, companyID, nil, "Zoe Admin", directory.RoleAdmin)
	seedPerson(t, db, companyID, nil, "Ada Owner", directory.RoleOwner)

	people, err := dir.ListPeople(ctx, companyID, directory.PersonQuery{})
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Ada Owner", people[0].DisplayName)
	assert.Equal(t, "Zoe Admin", people[1].DisplayName)
}

func TestGormPeopleDirectory_CountAndDistinctRoles(t *testing.T) {
	db := setupPeopleTestDB(t)
	dir := NewGormPeopleDirectory(db)
	ctx := context.Background()

	companyID := uuid.New()
	seedPerson(t, db, companyID, nil, "Avery Member", directory.RoleTeamMember)
	seedPerson(t, db, companyID, nil, "Blake Member", directory.RoleTeamMember)
	seedPerson(t, db, uuid.New(), nil, "Other Company Owner", directory.RoleOwner)

	count, err := dir.CountPeople(ctx, companyID, directory.PersonQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	roles, err := dir.DistinctRoles(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, []directory.Role{directory.RoleTeamMember}, roles)
}
