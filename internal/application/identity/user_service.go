package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// UserService manages a company's member directory
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns the company's members, paginated
func (s *UserService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserInfo], error) {
	users, total, err := s.userRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserInfo, len(users))
	for i := range users {
		items[i] = ToUserInfo(&users[i])
	}
	page := shared.NewPaginated(items, total, filter)
	return &page, nil
}

// Get returns one member, scoped to the company
func (s *UserService) Get(ctx context.Context, companyID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BelongsTo(companyID) {
		return nil, shared.ErrNotFound
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdateRole changes a member's permission level
func (s *UserService) UpdateRole(ctx context.Context, companyID, userID uuid.UUID, input UpdateUserRoleInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BelongsTo(companyID) {
		return nil, shared.ErrNotFound
	}

	if err := user.ChangeRole(identity.Role(input.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", input.Role),
	)
	info := ToUserInfo(user)
	return &info, nil
}

// Delete removes a member from the company. The company's last owner
// cannot be removed, the tenant would be locked out.
func (s *UserService) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.BelongsTo(companyID) {
		return shared.ErrNotFound
	}
	if user.Role == identity.RoleOwner {
		return shared.NewDomainError("CANNOT_DELETE_OWNER", "The company owner cannot be removed")
	}

	if err := s.userRepo.Delete(ctx, companyID, userID); err != nil {
		return err
	}
	s.logger.Info("User removed",
		zap.String("user_id", userID.String()),
		zap.String("company_id", companyID.String()),
	)
	return nil
}

// Count returns the company's member count
func (s *UserService) Count(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return s.userRepo.CountForCompany(ctx, companyID)
}
