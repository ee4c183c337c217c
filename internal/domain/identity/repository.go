package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// Create inserts a new company
	Create(ctx context.Context, company *Company) error

	// Update persists changes to an existing company
	Update(ctx context.Context, company *Company) error

	// Delete removes a company by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindBySubdomain finds a company by its routing subdomain
	FindBySubdomain(ctx context.Context, subdomain string) (*Company, error)

	// FindAll lists companies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, int64, error)

	// ExistsByName checks whether a company with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySubdomain checks whether the subdomain is already taken
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error

	// Delete removes a user by ID, scoped to the company
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (emails are globally unique)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForCompany lists a company's users with pagination
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks whether the email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountForCompany counts a company's users
	CountForCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}
