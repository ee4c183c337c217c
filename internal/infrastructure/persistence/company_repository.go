package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// GormCompanyRepository implements identity.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create inserts a new company
func (r *GormCompanyRepository) Create(ctx context.Context, company *identity.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing company
func (r *GormCompanyRepository) Update(ctx context.Context, company *identity.Company) error {
	result := r.db.WithContext(ctx).Save(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a company by ID
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var company identity.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindBySubdomain finds a company by its routing subdomain
func (r *GormCompanyRepository) FindBySubdomain(ctx context.Context, subdomain string) (*identity.Company, error) {
	var company identity.Company
	normalized := strings.ToLower(strings.TrimSpace(subdomain))
	if err := r.db.WithContext(ctx).First(&company, "subdomain = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll lists companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&identity.Company{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR subdomain LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []identity.Company
	if err := applyPagination(query, filter).Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// ExistsByName checks whether a company with the given name exists
func (r *GormCompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Company{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySubdomain checks whether the subdomain is already taken
func (r *GormCompanyRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	normalized := strings.ToLower(strings.TrimSpace(subdomain))
	if err := r.db.WithContext(ctx).Model(&identity.Company{}).
		Where("subdomain = ?", normalized).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
