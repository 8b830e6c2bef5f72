package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_OwnerDashboard(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	ownerID := uuid.New()
	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	available := leasing.AssetStatusAvailable

	repos.dashboard.On("CountAssets", ctx, ownerID, (*leasing.AssetStatus)(nil)).Return(int64(10), nil)
	repos.dashboard.On("CountAssets", ctx, ownerID, &available).Return(int64(4), nil)
	repos.dashboard.On("CountContracts", ctx, ownerID, leasing.ContractStatusActive).Return(int64(5), nil)
	repos.dashboard.On("CountContracts", ctx, ownerID, leasing.ContractStatusCompleted).Return(int64(2), nil)
	repos.dashboard.On("CountActiveEndingBetween", ctx, ownerID, today, today.AddDate(0, 0, 30)).Return(int64(1), nil)
	repos.dashboard.On("SumActiveInstallmentAmounts", ctx, ownerID).Return(decimal.NewFromInt(25000), nil)
	repos.dashboard.On("SumReceipts", ctx, ownerID, mock.Anything, mock.Anything).Return(decimal.NewFromInt(1000), nil)
	repos.dashboard.On("CountInstallments", ctx, ownerID, today).
		Return(leasing.InstallmentStatusCounts{Paid: 30, Pending: 20, Overdue: 3}, nil)
	repos.dashboard.On("RecentContracts", ctx, ownerID, 5).
		Return([]leasing.Contract{*newTestContract(ownerID, uuid.New(), 1, 1)}, nil)

	svc := NewDashboardService(repos.repositories(), fixedClock(paymentNow), nil)
	resp, err := svc.OwnerDashboard(ctx, identity.Actor{UserID: ownerID, Role: identity.RoleOwner})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.TotalAssets)
	assert.Equal(t, int64(4), resp.VacantAssets)
	assert.Equal(t, int64(5), resp.ActiveContracts)
	assert.Equal(t, int64(2), resp.CompletedContracts)
	assert.Equal(t, int64(1), resp.ExpiringSoon)
	assert.True(t, resp.ExpectedMonthlyRevenue.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, InstallmentStatsResponse{Paid: 30, Pending: 20, Overdue: 3}, resp.Installments)
	assert.Len(t, resp.RecentContracts, 1)

	require.Len(t, resp.RevenueByMonth, 6)
	assert.Equal(t, "2023-10", resp.RevenueByMonth[0].Month)
	assert.Equal(t, "2024-03", resp.RevenueByMonth[5].Month)
	repos.dashboard.AssertNumberOfCalls(t, "SumReceipts", 6)
}

func TestDashboardService_RevenueWindowsUseBusinessZone(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	// 2024-02-29 20:00 UTC is already March 1st in UTC+7
	now := time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC)
	svc := NewDashboardService(Repositories{}, Clock{Now: func() time.Time { return now }, Location: ict}, nil)

	windows := svc.revenueWindows(2)
	require.Len(t, windows, 2)
	assert.Equal(t, "2024-02", windows[0].label)
	assert.Equal(t, "2024-03", windows[1].label)
	assert.Equal(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), windows[1].from)
	assert.Equal(t, time.Date(2024, 3, 31, 17, 0, 0, 0, time.UTC), windows[1].to)
	assert.Equal(t, windows[0].to, windows[1].from)
}

func TestDashboardService_OwnerOnly(t *testing.T) {
	svc := NewDashboardService(Repositories{}, fixedClock(paymentNow), nil)
	_, err := svc.OwnerDashboard(context.Background(), identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
