package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// Authentication failure reasons surfaced to the handler.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// AuthService resolves credentials to an authorization context. Credentials
// live in the users table, authorization on the profiles table; a user
// without a profile row gets one provisioned during login with the
// configured bootstrap role.
type AuthService struct {
	db            *gorm.DB
	redis         *redis.Client
	bootstrapRole string
	sessionTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, redisClient *redis.Client, bootstrapRole string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		db:            db,
		redis:         redisClient,
		bootstrapRole: bootstrapRole,
		sessionTTL:    sessionTTL,
	}
}

// Authenticate validates credentials and resolves the profile in the same
// operation. It never returns a profile for a deactivated account: that is
// ErrAccountDisabled, and any cached session for the account is dropped.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.Profile, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.ResolveProfile(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if !profile.IsActive {
		s.ClearSession(ctx, profile.ID)
		return nil, ErrAccountDisabled
	}

	s.cacheSession(ctx, profile)
	return profile, nil
}

// ResolveProfile loads the profile for a user id, auto-provisioning one with
// the bootstrap role when none exists yet.
func (s *AuthService) ResolveProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	profile = model.Profile{
		ID:             userID,
		Email:          email,
		Name:           nameFromEmail(email),
		Role:           s.bootstrapRole,
		IsActive:       true,
		AllowedModules: bootstrapModules(s.bootstrapRole),
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return &profile, nil
}

// CreateUser creates credentials and the matching profile in one transaction.
func (s *AuthService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.Profile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	modules := req.AllowedModules
	if modules == nil {
		modules = bootstrapModules(role)
	}
	name := req.Name
	if name == "" {
		name = nameFromEmail(req.Email)
	}

	profile := model.Profile{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Name:           name,
		Role:           role,
		IsActive:       active,
		AllowedModules: modules,
	}
	user := model.User{
		ID:       profile.ID,
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     name,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout drops the cached session. Calling it for an already logged-out
// user is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.ClearSession(ctx, userID)
}

// Profile returns the session profile, preferring the redis cache and
// falling back to the database. A deactivated profile is never returned,
// whichever source it came from: the caller gets ErrAccountDisabled and the
// stale session is dropped.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	profile := s.cachedProfile(ctx, userID)
	if profile == nil {
		var stored model.Profile
		if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&stored).Error; err != nil {
			return nil, err
		}
		profile = &stored
	}

	if !profile.IsActive {
		s.ClearSession(ctx, userID)
		return nil, ErrAccountDisabled
	}
	return profile, nil
}

// ClearSession removes the cached profile for a user. Used on logout and
// whenever an admin deactivates an account.
func (s *AuthService) ClearSession(ctx context.Context, userID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, sessionKey(userID)).Err()
}

func (s *AuthService) cacheSession(ctx context.Context, profile *model.Profile) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return
	}
	s.redis.Set(ctx, sessionKey(profile.ID), payload, s.sessionTTL)
}

func (s *AuthService) cachedProfile(ctx context.Context, userID string) *model.Profile {
	if s.redis == nil {
		return nil
	}
	payload, err := s.redis.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var profile model.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil
	}
	return &profile
}

func sessionKey(userID string) string {
	return "session:" + userID
}

func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// bootstrapModules picks the module set granted with a provisioned role:
// everything for ADMIN, the dashboard only for anyone else.
func bootstrapModules(role string) model.ModuleList {
	if role == model.RoleAdmin {
		return model.AllModules()
	}
	return model.ModuleList{model.ModuleDashboard}
}
