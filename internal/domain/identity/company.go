package identity

import (
	"strings"
	"time"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Plan identifies a subscription tier
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// IsValid reports whether the plan is a known tier
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// DurationMonths returns how many months a purchase of this plan grants
func (p Plan) DurationMonths() int {
	switch p {
	case PlanBasic:
		return 1
	case PlanPro:
		return 3
	case PlanEnterprise:
		return 12
	default:
		return 1
	}
}

// Subscription is the company's current plan state. It is embedded in the
// company row rather than stored as its own aggregate.
type Subscription struct {
	Plan      Plan       `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
}

// Company is a tenant. Its subdomain is derived from the name at signup and
// routes all tenant-scoped traffic.
type Company struct {
	shared.BaseAggregateRoot
	Name         string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	Subdomain    string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsActive     bool         `gorm:"not null;default:true"`
	Subscription Subscription `gorm:"embedded;embeddedPrefix:subscription_"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// DeriveSubdomain turns a company name into its routing label:
// "Life Medical Store" -> "life-medical-store". Diacritics are folded to
// their ASCII base before stripping, so "Café Pharma" -> "cafe-pharma".
// The result is stable: deriving twice yields the same label.
func DeriveSubdomain(name string) string {
	return shared.Slugify(name)
}

// NewCompany creates a tenant on the free plan with an active subscription
func NewCompany(name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	subdomain := DeriveSubdomain(name)
	if subdomain == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name must contain at least one letter or digit")
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Subdomain:         subdomain,
		IsActive:          true,
		Subscription: Subscription{
			Plan:     PlanFree,
			IsActive: true,
		},
	}, nil
}

// ApplySubscription is the single place where plan state is written.
// Subscription activity is derived from the expiry, and company activity
// mirrors it: an expired subscription switches the whole tenant off.
func (c *Company) ApplySubscription(plan Plan, expiresAt *time.Time, now time.Time) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}

	active := expiresAt != nil && expiresAt.After(now)
	if plan == PlanFree && expiresAt == nil {
		// The free tier never expires.
		active = true
	}

	c.Subscription.Plan = plan
	c.Subscription.ExpiresAt = expiresAt
	c.Subscription.IsActive = active
	c.IsActive = active
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// ActivatePlan grants the plan for the given number of months from now.
// Zero months falls back to the plan's own duration.
func (c *Company) ActivatePlan(plan Plan, months int, now time.Time) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	if months <= 0 {
		months = plan.DurationMonths()
	}
	expiresAt := now.AddDate(0, months, 0)
	return c.ApplySubscription(plan, &expiresAt, now)
}

// SetActive flips the tenant switch without touching the subscription.
// Used by the operator surface to suspend or restore a company.
func (c *Company) SetActive(active bool) {
	c.IsActive = active
	c.Touch()
	c.IncrementVersion()
}
