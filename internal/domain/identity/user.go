package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Role is the coarse permission level a user holds within their company
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// IsValid reports whether the role is one of the known levels
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is an account in the directory. Company-bound users carry a
// CompanyID; platform operators (super_admin) have none.
type User struct {
	shared.BaseAggregateRoot
	SequenceID   int64      `gorm:"not null;index"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'employee'"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a company-bound user with a hashed password
func NewUser(companyID uuid.UUID, sequenceID int64, name, email, password string, role Role) (*User, error) {
	u, err := newUser(sequenceID, name, email, password, role)
	if err != nil {
		return nil, err
	}
	if role == RoleSuperAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Super admin cannot belong to a company")
	}
	u.CompanyID = &companyID
	return u, nil
}

// NewSuperAdmin creates a platform operator account outside any company
func NewSuperAdmin(sequenceID int64, name, email, password string) (*User, error) {
	return newUser(sequenceID, name, email, password, RoleSuperAdmin)
}

func newUser(sequenceID int64, name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SequenceID:        sequenceID,
		Name:              name,
		Email:             normalizeEmail(email),
		Role:              role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangeRole updates the user's permission level. The super_admin level is
// assigned at creation only, never by promotion.
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() || role == RoleSuperAdmin {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	u.Role = role
	u.Touch()
	u.IncrementVersion()
	return nil
}

// BelongsTo reports whether the user is bound to the given company
func (u *User) BelongsTo(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > 255 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
