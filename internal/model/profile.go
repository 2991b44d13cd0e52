package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UserRole values stored on a profile.
const (
	RoleAdmin         = "ADMIN"
	RoleManager       = "MANAGER"
	RoleUser          = "USER"
	RoleComptabilite  = "COMPTABILITE"
	RoleTechnique     = "TECHNIQUE"
	RoleAdministratif = "ADMINISTRATIF"
)

// Application modules gated by profile permissions.
const (
	ModuleDashboard = "dashboard"
	ModuleChantiers = "chantiers"
	ModuleStock     = "stock"
	ModuleClients   = "clients"
	ModuleMonteurs  = "monteurs"
	ModuleRapports  = "rapports"
	ModuleAdmin     = "admin"
)

// AllModules returns the full module set, used when provisioning an admin profile.
func AllModules() ModuleList {
	return ModuleList{
		ModuleDashboard, ModuleChantiers, ModuleStock, ModuleClients,
		ModuleMonteurs, ModuleRapports, ModuleAdmin,
	}
}

// ModuleList is a helper type for JSONB string-array fields
type ModuleList []string

// Value implements driver.Valuer
func (m ModuleList) Value() (driver.Value, error) {
	if m == nil {
		m = ModuleList{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *ModuleList) Scan(value interface{}) error {
	if value == nil {
		*m = ModuleList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported type for ModuleList")
}

// Contains reports whether the module is part of the enabled set
func (m ModuleList) Contains(module string) bool {
	for _, v := range m {
		if v == module {
			return true
		}
	}
	return false
}

// User holds login credentials. Authorization lives on the Profile row
// keyed by the same id.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:100"`
	Password  string    `json:"-" gorm:"size:255"` // hashed password
	Name      string    `json:"name" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile represents the authorization context of a user: role, enabled
// modules and the active flag. A user with no profile row gets one
// auto-provisioned on first login.
type Profile struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Email          string     `json:"email" gorm:"size:100"`
	Name           string     `json:"name" gorm:"size:100"`
	Role           string     `json:"role" gorm:"size:20;default:'USER'"`
	IsActive       bool       `json:"is_active" gorm:"column:is_active;default:true"`
	AllowedModules ModuleList `json:"allowed_modules" gorm:"column:allowed_modules;type:jsonb"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// HasModuleAccess answers the module gate for this profile. ADMIN always
// passes regardless of the stored module set.
func (p *Profile) HasModuleAccess(module string) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	return p.AllowedModules.Contains(module)
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// CreateUserRequest creates credentials plus the matching profile in one call
type CreateUserRequest struct {
	Email          string     `json:"email" binding:"required,email"`
	Password       string     `json:"password" binding:"required,min=6"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	IsActive       *bool      `json:"is_active"`
	AllowedModules ModuleList `json:"allowed_modules"`
}

// UpdateProfileRequest updates the authorization fields of a profile
type UpdateProfileRequest struct {
	Name           string      `json:"name"`
	Role           string      `json:"role"`
	IsActive       *bool       `json:"is_active"`
	AllowedModules *ModuleList `json:"allowed_modules"`
}
