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
)

func TestCompanyService_List(t *testing.T) {
	ctx := context.Background()

	first, err := identity.NewCompany("El Ezaby Pharmacy")
	require.NoError(t, err)
	second, err := identity.NewCompany("Seif Pharmacies")
	require.NoError(t, err)

	companyRepo := new(MockCompanyRepository)
	svc := NewCompanyService(companyRepo, zap.NewNop())

	filter := shared.DefaultFilter()
	companyRepo.On("FindAll", ctx, filter).Return([]identity.Company{*first, *second}, int64(2), nil)

	page, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "el-ezaby-pharmacy", page.Items[0].Subdomain)
	assert.Equal(t, "seif-pharmacies", page.Items[1].Subdomain)
}

func TestCompanyService_SetStatus(t *testing.T) {
	ctx := context.Background()

	company, err := identity.NewCompany("El Ezaby Pharmacy")
	require.NoError(t, err)
	require.True(t, company.IsActive)

	companyRepo := new(MockCompanyRepository)
	svc := NewCompanyService(companyRepo, zap.NewNop())
	companyRepo.On("FindByID", ctx, company.ID).Return(company, nil)
	companyRepo.On("Update", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

	inactive := false
	info, err := svc.SetStatus(ctx, company.ID, SetCompanyStatusInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, info.IsActive)
	companyRepo.AssertExpectations(t)
}

func TestCompanyService_SetSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("grants a paid plan", func(t *testing.T) {
		company, err := identity.NewCompany("El Ezaby Pharmacy")
		require.NoError(t, err)

		companyRepo := new(MockCompanyRepository)
		svc := NewCompanyService(companyRepo, zap.NewNop())
		companyRepo.On("FindByID", ctx, company.ID).Return(company, nil)
		companyRepo.On("Update", ctx, mock.AnythingOfType("*identity.Company")).Return(nil)

		expires := time.Now().Add(30 * 24 * time.Hour)
		info, err := svc.SetSubscription(ctx, company.ID, SetSubscriptionInput{
			Plan:      "pro",
			ExpiresAt: &expires,
		})
		require.NoError(t, err)
		assert.Equal(t, "pro", info.Subscription.Plan)
		assert.True(t, info.Subscription.IsActive)
	})

	t.Run("rejects an unknown plan", func(t *testing.T) {
		company, err := identity.NewCompany("El Ezaby Pharmacy")
		require.NoError(t, err)

		companyRepo := new(MockCompanyRepository)
		svc := NewCompanyService(companyRepo, zap.NewNop())
		companyRepo.On("FindByID", ctx, company.ID).Return(company, nil)

		_, err = svc.SetSubscription(ctx, company.ID, SetSubscriptionInput{Plan: "platinum"})
		require.Error(t, err)
		companyRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing company surfaces not found", func(t *testing.T) {
		companyRepo := new(MockCompanyRepository)
		svc := NewCompanyService(companyRepo, zap.NewNop())

		company, err := identity.NewCompany("Ghost Pharmacy")
		require.NoError(t, err)
		companyRepo.On("FindByID", ctx, company.ID).Return(nil, shared.ErrNotFound)

		_, err = svc.Get(ctx, company.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
