package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// SetCompanyStatusInput toggles a company on or off
type SetCompanyStatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetSubscriptionInput overrides a company's subscription directly
type SetSubscriptionInput struct {
	Plan      string     `json:"plan" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// CompanyService carries the platform-operator view of companies
type CompanyService struct {
	companyRepo identity.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo identity.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// List returns all registered companies, paginated
func (s *CompanyService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CompanyInfo], error) {
	companies, total, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CompanyInfo, len(companies))
	for i := range companies {
		items[i] = ToCompanyInfo(&companies[i])
	}
	page := shared.NewPaginated(items, total, filter)
	return &page, nil
}

// Get returns one company
func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	info := ToCompanyInfo(company)
	return &info, nil
}

// SetStatus enables or disables a company without touching its subscription
func (s *CompanyService) SetStatus(ctx context.Context, companyID uuid.UUID, input SetCompanyStatusInput) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	company.SetActive(*input.IsActive)
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("Company status changed",
		zap.String("company_id", companyID.String()),
		zap.Bool("is_active", *input.IsActive),
	)
	info := ToCompanyInfo(company)
	return &info, nil
}

// SetSubscription overrides the subscription. Activity is recomputed from
// the provided expiry through the same path billing activation uses.
func (s *CompanyService) SetSubscription(ctx context.Context, companyID uuid.UUID, input SetSubscriptionInput) (*CompanyInfo, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := company.ApplySubscription(identity.Plan(input.Plan), input.ExpiresAt, time.Now()); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("Company subscription overridden",
		zap.String("company_id", companyID.String()),
		zap.String("plan", input.Plan),
	)
	info := ToCompanyInfo(company)
	return &info, nil
}
