package leasing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSchedule(t *testing.T, months int) *Schedule {
	t.Helper()
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:   dec("45000"),
		DownPayment:  dec("5000"),
		InterestRate: dec("12"),
		Months:       months,
		StartDate:    date(2025, time.January, 1),
		ContractType: ContractTypeInstallment,
	})
	require.NoError(t, err)
	return s
}

func createTestContract(t *testing.T, months int) *Contract {
	t.Helper()
	c, err := NewContract(uuid.New(), NewContractParams{
		CustomerID:     uuid.New(),
		AssetID:        uuid.New(),
		ContractNumber: "HP-2025-0001",
	}, createTestSchedule(t, months))
	require.NoError(t, err)
	return c
}

// ==================== NewContract ====================

func TestNewContract(t *testing.T) {
	ownerID := uuid.New()
	customerID := uuid.New()
	assetID := uuid.New()
	s := createTestSchedule(t, 12)

	c, err := NewContract(ownerID, NewContractParams{
		CustomerID:     customerID,
		AssetID:        assetID,
		ContractNumber: "  HP-001  ",
	}, s)
	require.NoError(t, err)

	assert.Equal(t, ownerID, c.OwnerID)
	assert.Equal(t, customerID, c.CustomerID)
	assert.Equal(t, assetID, c.AssetID)
	assert.Equal(t, "HP-001", c.ContractNumber)
	assert.Equal(t, ContractKindHirePurchase, c.Kind)
	assert.Equal(t, ContractTypeInstallment, c.ContractType)
	assert.Equal(t, ContractStatusActive, c.Status)
	assert.True(t, c.PrincipalAmount.Equal(dec("40000")))
	assert.True(t, c.InstallmentAmount.Equal(dec("3734")))
	assert.Equal(t, 12, c.InstallmentsCount)
	assert.Equal(t, date(2026, time.January, 1), c.EndDate)
	assert.Equal(t, c.EndDate, c.OriginalEndDate)

	require.Len(t, c.Installments, 12)
	for i, inst := range c.Installments {
		assert.Equal(t, c.ID, inst.ContractID)
		assert.Equal(t, i+1, inst.Sequence)
		assert.Equal(t, InstallmentStatusPending, inst.Status)
	}

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeContractCreated, events[0].EventType())
	assert.Equal(t, ownerID, events[0].OwnerID())
}

func TestNewContract_Validation(t *testing.T) {
	s := createTestSchedule(t, 3)
	valid := NewContractParams{CustomerID: uuid.New(), AssetID: uuid.New(), ContractNumber: "C-1"}

	tests := []struct {
		name     string
		ownerID  uuid.UUID
		params   func() NewContractParams
		schedule *Schedule
		code     string
	}{
		{"empty owner", uuid.Nil, func() NewContractParams { return valid }, s, "INVALID_OWNER"},
		{"empty customer", uuid.New(), func() NewContractParams { p := valid; p.CustomerID = uuid.Nil; return p }, s, "INVALID_CUSTOMER"},
		{"empty asset", uuid.New(), func() NewContractParams { p := valid; p.AssetID = uuid.Nil; return p }, s, "INVALID_ASSET"},
		{"blank number", uuid.New(), func() NewContractParams { p := valid; p.ContractNumber = "   "; return p }, s, "INVALID_CONTRACT_NUMBER"},
		{"long number", uuid.New(), func() NewContractParams {
			p := valid
			p.ContractNumber = "C-0123456789012345678901234567890123456789012345678901"
			return p
		}, s, "INVALID_CONTRACT_NUMBER"},
		{"no schedule", uuid.New(), func() NewContractParams { return valid }, nil, "INVALID_SCHEDULE"},
		{"bad kind", uuid.New(), func() NewContractParams { p := valid; p.Kind = "lease"; return p }, s, "INVALID_CONTRACT_KIND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContract(tt.ownerID, tt.params(), tt.schedule)
			require.Error(t, err)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

// ==================== CheckCompletion ====================

func TestContract_CheckCompletion(t *testing.T) {
	t.Run("stays active while any installment is unpaid", func(t *testing.T) {
		c := createTestContract(t, 3)
		require.NoError(t, c.Installments[0].SettleInFull(time.Now()))
		require.NoError(t, c.Installments[1].SettleInFull(time.Now()))

		assert.False(t, c.CheckCompletion(c.Installments))
		assert.Equal(t, ContractStatusActive, c.Status)
	})

	t.Run("completes exactly once", func(t *testing.T) {
		c := createTestContract(t, 2)
		c.ClearDomainEvents()
		for i := range c.Installments {
			require.NoError(t, c.Installments[i].SettleInFull(time.Now()))
		}

		assert.True(t, c.CheckCompletion(c.Installments))
		assert.Equal(t, ContractStatusCompleted, c.Status)
		assert.NotNil(t, c.CompletedAt)
		assert.Len(t, c.GetDomainEvents(), 1)

		version := c.Version
		assert.False(t, c.CheckCompletion(c.Installments))
		assert.Equal(t, version, c.Version)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("partial installment blocks completion", func(t *testing.T) {
		c := createTestContract(t, 1)
		require.NoError(t, c.Installments[0].ApplyPayment(dec("1"), time.Now()))
		assert.False(t, c.CheckCompletion(c.Installments))
	})

	t.Run("no installments is not completion", func(t *testing.T) {
		c := createTestContract(t, 1)
		assert.False(t, c.CheckCompletion(nil))
	})

	t.Run("cancelled contract never completes", func(t *testing.T) {
		c := createTestContract(t, 1)
		require.NoError(t, c.Cancel(c.OwnerID))
		require.NoError(t, c.Installments[0].SettleInFull(time.Now()))
		assert.False(t, c.CheckCompletion(c.Installments))
		assert.Equal(t, ContractStatusCancelled, c.Status)
	})
}

// ==================== Cancel ====================

func TestContract_Cancel(t *testing.T) {
	c := createTestContract(t, 2)
	by := uuid.New()

	require.NoError(t, c.Cancel(by))
	assert.Equal(t, ContractStatusCancelled, c.Status)
	require.NotNil(t, c.CancelledBy)
	assert.Equal(t, by, *c.CancelledBy)

	err := c.Cancel(by)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestContract_NextUnpaidAndPaidCount(t *testing.T) {
	c := createTestContract(t, 3)
	assert.Equal(t, 1, c.NextUnpaid().Sequence)
	assert.Equal(t, 0, c.PaidCount())

	require.NoError(t, c.Installments[0].SettleInFull(time.Now()))
	assert.Equal(t, 2, c.NextUnpaid().Sequence)
	assert.Equal(t, 1, c.PaidCount())

	require.NoError(t, c.Installments[1].SettleInFull(time.Now()))
	require.NoError(t, c.Installments[2].SettleInFull(time.Now()))
	assert.Nil(t, c.NextUnpaid())
}

func TestContract_FinancedPrincipal(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:     dec("100000"),
		InterestRate:   dec("10"),
		Months:         24,
		StartDate:      date(2025, time.January, 1),
		ContractType:   ContractTypeHirePurchase,
		BalloonPercent: dec("30"),
	})
	require.NoError(t, err)

	c, err := NewContract(uuid.New(), NewContractParams{CustomerID: uuid.New(), AssetID: uuid.New(), ContractNumber: "HP-B"}, s)
	require.NoError(t, err)
	assert.True(t, c.BalloonPayment.Equal(dec("30000")))
	assert.True(t, c.FinancedPrincipal().Equal(dec("70000")))
}
