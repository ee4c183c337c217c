package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
	"github.com/lifemedical/backend/internal/infrastructure/auth"
	"github.com/lifemedical/backend/internal/infrastructure/config"
)

func newTestAuthService(userRepo *MockUserRepository, companyRepo *MockCompanyRepository, sequences *MockSequenceRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough",
		Expiration: time.Hour,
		Issuer:     "lifemedical-test",
	})
	return NewAuthService(
		userRepo,
		companyRepo,
		sequences,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		"lifemedical.app",
		zap.NewNop(),
	)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	company, err := identity.NewCompany("Life Medical Store")
	require.NoError(t, err)
	owner, err := identity.NewUser(company.ID, 1, "Ahmed", "owner@example.com", "correct-pass", identity.RoleOwner)
	require.NoError(t, err)

	t.Run("succeeds with correct credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		companyRepo := new(MockCompanyRepository)
		svc := newTestAuthService(userRepo, companyRepo, new(MockSequenceRepository))

		userRepo.On("FindByEmail", ctx, "owner@example.com").Return(owner, nil)
		companyRepo.On("FindByID", ctx, company.ID).Return(company, nil)

		result, err := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "correct-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "owner", result.User.Role)
		require.NotNil(t, result.Company)
		assert.Equal(t, "life-medical-store", result.Company.Subdomain)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo, new(MockCompanyRepository), new(MockSequenceRepository))

		userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)
		userRepo.On("FindByEmail", ctx, "owner@example.com").Return(owner, nil)

		_, errUnknown := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})
		_, errWrongPass := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "wrong-pass"})

		require.Error(t, errUnknown)
		require.Error(t, errWrongPass)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("super admin logs in without a company", func(t *testing.T) {
		admin, err := identity.NewSuperAdmin(1, "Operator", "ops@example.com", "ops-secret")
		require.NoError(t, err)

		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo, new(MockCompanyRepository), new(MockSequenceRepository))
		userRepo.On("FindByEmail", ctx, "ops@example.com").Return(admin, nil)

		result, err := svc.Login(ctx, LoginInput{Email: "ops@example.com", Password: "ops-secret"})
		require.NoError(t, err)
		assert.Nil(t, result.Company)
		assert.Equal(t, "super_admin", result.User.Role)
	})
}

func TestAuthService_CompanySignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates company, owner and login url", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		companyRepo := new(MockCompanyRepository)
		sequences := new(MockSequenceRepository)
		svc := newTestAuthService(userRepo, companyRepo, sequences)

		userRepo.On("ExistsByEmail", ctx, "founder@example.com").Return(false, nil)
		companyRepo.On("Create", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)
		sequences.On("Next", ctx, shared.SequenceUser).Return(int64(1), nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := svc.CompanySignup(ctx, CompanySignupInput{
			Name:        "Ahmed Hassan",
			Email:       "founder@example.com",
			Password:    "secret-pass",
			CompanyName: "Life Medical Store",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "owner", result.User.Role)
		require.NotNil(t, result.Company)
		assert.Equal(t, "life-medical-store", result.Company.Subdomain)
		assert.Equal(t, "free", result.Company.Subscription.Plan)
		assert.True(t, result.Company.IsActive)
		assert.Equal(t, "https://life-medical-store.lifemedical.app/login", result.LoginURL)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo, new(MockCompanyRepository), new(MockSequenceRepository))
		userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.CompanySignup(ctx, CompanySignupInput{
			Name:        "Someone",
			Email:       "taken@example.com",
			Password:    "secret-pass",
			CompanyName: "Another Store",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})

	t.Run("removes the company when the owner cannot be created", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		companyRepo := new(MockCompanyRepository)
		sequences := new(MockSequenceRepository)
		svc := newTestAuthService(userRepo, companyRepo, sequences)

		userRepo.On("ExistsByEmail", ctx, "founder@example.com").Return(false, nil)
		companyRepo.On("Create", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)
		sequences.On("Next", ctx, shared.SequenceUser).Return(int64(1), nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(shared.ErrAlreadyExists)
		companyRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := svc.CompanySignup(ctx, CompanySignupInput{
			Name:        "Ahmed",
			Email:       "founder@example.com",
			Password:    "secret-pass",
			CompanyName: "Life Medical Store",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
		companyRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
	})

	t.Run("maps duplicate company to a conflict", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		companyRepo := new(MockCompanyRepository)
		svc := newTestAuthService(userRepo, companyRepo, new(MockSequenceRepository))

		userRepo.On("ExistsByEmail", ctx, "founder@example.com").Return(false, nil)
		companyRepo.On("Create", ctx, mock.AnythingOfType("*identity.Company")).Return(shared.ErrAlreadyExists)

		_, err := svc.CompanySignup(ctx, CompanySignupInput{
			Name:        "Ahmed",
			Email:       "founder@example.com",
			Password:    "secret-pass",
			CompanyName: "Life Medical Store",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COMPANY_EXISTS", domainErr.Code)
	})
}

func TestAuthService_TenantSignup(t *testing.T) {
	ctx := context.Background()

	company, err := identity.NewCompany("Life Medical Store")
	require.NoError(t, err)

	t.Run("registers an employee under the subdomain", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		companyRepo := new(MockCompanyRepository)
		sequences := new(MockSequenceRepository)
		svc := newTestAuthService(userRepo, companyRepo, sequences)

		companyRepo.On("FindBySubdomain", ctx, "life-medical-store").Return(company, nil)
		userRepo.On("ExistsByEmail", ctx, "employee@example.com").Return(false, nil)
		sequences.On("Next", ctx, shared.SequenceUser).Return(int64(7), nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := svc.TenantSignup(ctx, TenantSignupInput{
			Name:      "Mona Said",
			Email:     "employee@example.com",
			Password:  "secret-pass",
			Subdomain: "life-medical-store",
		})
		require.NoError(t, err)
		assert.Equal(t, "employee", result.User.Role)
		assert.Equal(t, int64(7), result.User.SequenceID)
	})

	t.Run("unknown subdomain is a not-found error naming it", func(t *testing.T) {
		companyRepo := new(MockCompanyRepository)
		svc := newTestAuthService(new(MockUserRepository), companyRepo, new(MockSequenceRepository))
		companyRepo.On("FindBySubdomain", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.TenantSignup(ctx, TenantSignupInput{
			Name:      "X",
			Email:     "x@example.com",
			Password:  "secret-pass",
			Subdomain: "ghost",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COMPANY_NOT_FOUND", domainErr.Code)
		assert.Contains(t, domainErr.Message, "ghost")
	})

	t.Run("missing subdomain is rejected", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository), new(MockCompanyRepository), new(MockSequenceRepository))
		_, err := svc.TenantSignup(ctx, TenantSignupInput{
			Name:     "X",
			Email:    "x@example.com",
			Password: "secret-pass",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_SUBDOMAIN", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	company, err := identity.NewCompany("Life Medical Store")
	require.NoError(t, err)
	owner, err := identity.NewUser(company.ID, 1, "Ahmed", "owner@example.com", "correct-pass", identity.RoleOwner)
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	companyRepo := new(MockCompanyRepository)
	svc := newTestAuthService(userRepo, companyRepo, new(MockSequenceRepository))
	userRepo.On("FindByEmail", ctx, "owner@example.com").Return(owner, nil)
	companyRepo.On("FindByID", ctx, company.ID).Return(company, nil)

	result, err := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "correct-pass"})
	require.NoError(t, err)

	claims, err := svc.jwtService.Validate(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := svc.blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
