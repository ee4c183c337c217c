package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
	"github.com/lifemedical/backend/internal/infrastructure/auth"
)

// AuthService handles signup, login, profile and logout flows
type AuthService struct {
	userRepo    identity.UserRepository
	companyRepo identity.CompanyRepository
	sequences   shared.SequenceRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	baseDomain  string
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	companyRepo identity.CompanyRepository,
	sequences shared.SequenceRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	baseDomain string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		sequences:   sequences,
		jwtService:  jwtService,
		blacklist:   blacklist,
		baseDomain:  baseDomain,
		logger:      logger,
	}
}

// Login authenticates by email and password. A wrong email and a wrong
// password produce the same error, so the response never reveals which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login failed", zap.String("reason", "unknown email"))
		return nil, invalidCredentials()
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Login failed",
			zap.String("reason", "wrong password"),
			zap.String("user_id", user.ID.String()),
		)
		return nil, invalidCredentials()
	}

	var company *identity.Company
	if user.CompanyID != nil {
		company, err = s.companyRepo.FindByID(ctx, *user.CompanyID)
		if err != nil {
			s.logger.Error("Login found user with dangling company",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return nil, invalidCredentials()
		}
	}

	result, err := s.issueToken(user, company)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return result, nil
}

// CompanySignup registers a company and its owner in one step and logs the
// owner in. The returned LoginURL points at the company's subdomain.
func (s *AuthService) CompanySignup(ctx context.Context, input CompanySignupInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	company, err := identity.NewCompany(input.CompanyName)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("COMPANY_EXISTS", "A company with this name already exists")
		}
		return nil, err
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceUser)
	if err != nil {
		return nil, err
	}
	owner, err := identity.NewUser(company.ID, seq, input.Name, input.Email, input.Password, identity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		// The company row is useless without its owner and would hold the
		// name and subdomain forever, so undo it before reporting.
		if delErr := s.companyRepo.Delete(ctx, company.ID); delErr != nil {
			s.logger.Error("Failed to remove company after owner creation failed",
				zap.String("company_id", company.ID.String()),
				zap.Error(delErr),
			)
		}
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}

	result, err := s.issueToken(owner, company)
	if err != nil {
		return nil, err
	}
	result.LoginURL = fmt.Sprintf("https://%s.%s/login", company.Subdomain, s.baseDomain)

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("subdomain", company.Subdomain),
	)
	return result, nil
}

// TenantSignup registers an employee inside an existing company, resolved
// by its subdomain.
func (s *AuthService) TenantSignup(ctx context.Context, input TenantSignupInput) (*AuthResult, error) {
	if input.Subdomain == "" {
		return nil, shared.NewDomainError("MISSING_SUBDOMAIN", "Company subdomain is required")
	}

	company, err := s.companyRepo.FindBySubdomain(ctx, input.Subdomain)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND",
				fmt.Sprintf("No company registered under subdomain %q", input.Subdomain))
		}
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceUser)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(company.ID, seq, input.Name, input.Email, input.Password, identity.RoleEmployee)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("Employee registered",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", user.ID.String()),
	)
	return s.issueToken(user, company)
}

// Profile returns the authenticated user's view of themselves
func (s *AuthService) Profile(ctx context.Context, claims *auth.Claims) (*ProfileResult, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ProfileResult{User: ToUserInfo(user)}
	if user.CompanyID != nil {
		company, err := s.companyRepo.FindByID(ctx, *user.CompanyID)
		if err != nil {
			return nil, err
		}
		info := ToCompanyInfo(company)
		result.Company = &info
	}
	return result, nil
}

// Logout revokes the presented token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.NewDomainError("LOGOUT_FAILED", "Could not revoke the session")
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.Subject))
	return nil
}

func (s *AuthService) issueToken(user *identity.User, company *identity.Company) (*AuthResult, error) {
	input := auth.GenerateTokenInput{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
	}
	if company != nil {
		input.Subdomain = company.Subdomain
	}

	issued, err := s.jwtService.Generate(input)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_ERROR", "Failed to generate authentication token")
	}

	result := &AuthResult{
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresAt: issued.ExpiresAt,
		User:      ToUserInfo(user),
	}
	if company != nil {
		info := ToCompanyInfo(company)
		result.Company = &info
	}
	return result, nil
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}
