package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CompanySignupInput registers a new company together with its owner
type CompanySignupInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"companyName" binding:"required"`
}

// TenantSignupInput registers an employee inside an existing company.
// Subdomain may come from the body or the X-Company-Subdomain header.
type TenantSignupInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Subdomain string `json:"companySubdomain" binding:"omitempty,subdomain"`
}

// UserInfo is the serializable view of a user; the password hash never
// leaves the domain layer.
type UserInfo struct {
	ID         uuid.UUID  `json:"id"`
	SequenceID int64      `json:"sequenceId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	CompanyID  *uuid.UUID `json:"companyId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CompanyInfo is the serializable view of a company
type CompanyInfo struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Subdomain    string           `json:"subdomain"`
	IsActive     bool             `json:"isActive"`
	Subscription SubscriptionInfo `json:"subscription"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// SubscriptionInfo is the serializable view of a company's subscription
type SubscriptionInfo struct {
	Plan      string     `json:"plan"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// AuthResult is what every successful auth flow returns
type AuthResult struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserInfo     `json:"user"`
	Company   *CompanyInfo `json:"company,omitempty"`
	LoginURL  string       `json:"loginUrl,omitempty"`
}

// ProfileResult is the bearer-protected profile view
type ProfileResult struct {
	User    UserInfo     `json:"user"`
	Company *CompanyInfo `json:"company,omitempty"`
}

// UpdateUserRoleInput changes a company member's role
type UpdateUserRoleInput struct {
	Role string `json:"role" binding:"required"`
}

// ToUserInfo maps a domain user to its response shape
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:         user.ID,
		SequenceID: user.SequenceID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		CompanyID:  user.CompanyID,
		CreatedAt:  user.CreatedAt,
	}
}

// ToCompanyInfo maps a domain company to its response shape
func ToCompanyInfo(company *identity.Company) CompanyInfo {
	return CompanyInfo{
		ID:        company.ID,
		Name:      company.Name,
		Subdomain: company.Subdomain,
		IsActive:  company.IsActive,
		Subscription: SubscriptionInfo{
			Plan:      string(company.Subscription.Plan),
			ExpiresAt: company.Subscription.ExpiresAt,
			IsActive:  company.Subscription.IsActive,
		},
		CreatedAt: company.CreatedAt,
	}
}
