package leasing

import (
	"context"
	"time"

	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"go.uber.org/zap"
)

const (
	// ExpiringWindowDays is how far ahead a contract end date counts as expiring soon
	ExpiringWindowDays = 30
	// RevenueMonths is the number of months in the revenue history
	RevenueMonths      = 6
	recentContractsMax = 5
)

// DashboardService computes the owner dashboard
type DashboardService struct {
	repos  Repositories
	clock  Clock
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos Repositories, clock Clock, logger *zap.Logger) *DashboardService {
	return &DashboardService{repos: repos, clock: clock, logger: nopIfNil(logger)}
}

// OwnerDashboard returns asset, contract, revenue and installment figures for
// the owner
func (s *DashboardService) OwnerDashboard(ctx context.Context, actor identity.Actor) (*OwnerDashboardResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	ownerID := actor.UserID
	dash := s.repos.Dashboard
	today := s.clock.Today()

	var (
		resp OwnerDashboardResponse
		err  error
	)
	if resp.TotalAssets, err = dash.CountAssets(ctx, ownerID, nil); err != nil {
		return nil, err
	}
	available := leasing.AssetStatusAvailable
	if resp.VacantAssets, err = dash.CountAssets(ctx, ownerID, &available); err != nil {
		return nil, err
	}
	if resp.ActiveContracts, err = dash.CountContracts(ctx, ownerID, leasing.ContractStatusActive); err != nil {
		return nil, err
	}
	if resp.CompletedContracts, err = dash.CountContracts(ctx, ownerID, leasing.ContractStatusCompleted); err != nil {
		return nil, err
	}
	if resp.ExpiringSoon, err = dash.CountActiveEndingBetween(ctx, ownerID, today, today.AddDate(0, 0, ExpiringWindowDays)); err != nil {
		return nil, err
	}
	if resp.ExpectedMonthlyRevenue, err = dash.SumActiveInstallmentAmounts(ctx, ownerID); err != nil {
		return nil, err
	}

	resp.RevenueByMonth = make([]MonthlyRevenueResponse, 0, RevenueMonths)
	for _, m := range s.revenueWindows(RevenueMonths) {
		revenue, err := dash.SumReceipts(ctx, ownerID, m.from, m.to)
		if err != nil {
			return nil, err
		}
		resp.RevenueByMonth = append(resp.RevenueByMonth, MonthlyRevenueResponse{
			Month:   m.label,
			Revenue: revenue,
		})
	}

	counts, err := dash.CountInstallments(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	resp.Installments = InstallmentStatsResponse{Paid: counts.Paid, Pending: counts.Pending, Overdue: counts.Overdue}

	recent, err := dash.RecentContracts(ctx, ownerID, recentContractsMax)
	if err != nil {
		return nil, err
	}
	resp.RecentContracts = make([]ContractResponse, len(recent))
	for i := range recent {
		resp.RecentContracts[i] = ToContractResponse(&recent[i], today)
	}
	return &resp, nil
}

type monthWindow struct {
	label    string
	from, to time.Time
}

// revenueWindows returns the last n calendar months in the business zone,
// oldest first, as UTC half-open intervals. Receipts store paid_at in UTC.
func (s *DashboardService) revenueWindows(n int) []monthWindow {
	loc := s.clock.Location
	if loc == nil {
		loc = time.UTC
	}
	now := s.clock.now().In(loc)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	windows := make([]monthWindow, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		windows = append(windows, monthWindow{
			label: start.Format("2006-01"),
			from:  start.UTC(),
			to:    start.AddDate(0, 1, 0).UTC(),
		})
	}
	return windows
}
