package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Profile{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{ID: id, Email: email, Password: string(hash)}).Error)
}

func TestAuthenticateAutoProvisionsAdmin(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)
	seedUser(t, db, "u-1", "chef@gestibat.local", "secret123")

	profile, err := svc.Authenticate(context.Background(), "chef@gestibat.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, profile.Role)
	assert.True(t, profile.IsActive)
	// ADMIN passes every module gate
	for _, module := range model.AllModules() {
		assert.True(t, profile.HasModuleAccess(module), module)
	}

	// Provisioning happened once: a second login reuses the row
	again, err := svc.Authenticate(context.Background(), "chef@gestibat.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)

	var count int64
	db.Model(&model.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticateBootstrapRoleUser(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleUser, time.Hour)
	seedUser(t, db, "u-2", "ouvrier@gestibat.local", "secret123")

	profile, err := svc.Authenticate(context.Background(), "ouvrier@gestibat.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, profile.Role)
	assert.True(t, profile.HasModuleAccess(model.ModuleDashboard))
	assert.False(t, profile.HasModuleAccess(model.ModuleChantiers))
	assert.False(t, profile.HasModuleAccess(model.ModuleAdmin))
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)
	seedUser(t, db, "u-3", "chef@gestibat.local", "secret123")

	_, err := svc.Authenticate(context.Background(), "chef@gestibat.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@gestibat.local", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)
	seedUser(t, db, "u-4", "ancien@gestibat.local", "secret123")
	require.NoError(t, db.Create(&model.Profile{
		ID: "u-4", Email: "ancien@gestibat.local", Role: model.RoleUser, IsActive: false,
	}).Error)

	_, err := svc.Authenticate(context.Background(), "ancien@gestibat.local", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestCreateUserThenAuthenticate(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)

	created, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email:          "compta@gestibat.local",
		Password:       "secret123",
		Role:           model.RoleComptabilite,
		AllowedModules: model.ModuleList{model.ModuleDashboard, model.ModuleRapports},
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleComptabilite, created.Role)

	profile, err := svc.Authenticate(context.Background(), "compta@gestibat.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, profile.ID)
	assert.True(t, profile.HasModuleAccess(model.ModuleRapports))
	assert.False(t, profile.HasModuleAccess(model.ModuleStock))
}

func TestProfileRefusesInactive(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)
	require.NoError(t, db.Create(&model.Profile{
		ID: "u-5", Email: "parti@gestibat.local", Role: model.RoleUser, IsActive: false,
	}).Error)

	_, err := svc.Profile(context.Background(), "u-5")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogoutIsIdempotent(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(db, nil, model.RoleAdmin, time.Hour)

	require.NoError(t, svc.Logout(context.Background(), "u-1"))
	require.NoError(t, svc.Logout(context.Background(), "u-1"))
}
