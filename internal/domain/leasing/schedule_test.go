package leasing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ==================== ComputeSchedule ====================

func TestComputeSchedule_InstallmentExample(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:   dec("45000"),
		DownPayment:  dec("5000"),
		InterestRate: dec("12"),
		Months:       12,
		StartDate:    date(2025, time.January, 1),
		ContractType: ContractTypeInstallment,
	})
	require.NoError(t, err)

	assert.True(t, s.Principal.Equal(dec("40000")))
	assert.True(t, s.FinancedPrincipal.Equal(dec("40000")))
	assert.True(t, s.InterestTotal.Equal(dec("4800")))
	assert.True(t, s.TotalPayable.Equal(dec("44800")))
	assert.True(t, s.InstallmentAmount.Equal(dec("3734")), s.InstallmentAmount.String())
	assert.True(t, s.BalloonPayment.IsZero())
	assert.Equal(t, date(2026, time.January, 1), s.EndDate)

	require.Len(t, s.Entries, 12)
	assert.Equal(t, 1, s.Entries[0].Number)
	assert.Equal(t, date(2025, time.February, 1), s.Entries[0].DueDate)
	assert.Equal(t, 12, s.Entries[11].Number)
	assert.Equal(t, date(2026, time.January, 1), s.Entries[11].DueDate)
	for _, e := range s.Entries {
		assert.True(t, e.AmountDue.Equal(dec("3734")))
	}
}

func TestComputeSchedule_HirePurchaseBalloonExample(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:     dec("100000"),
		DownPayment:    decimal.Zero,
		InterestRate:   dec("10"),
		Months:         24,
		StartDate:      date(2025, time.March, 15),
		ContractType:   ContractTypeHirePurchase,
		BalloonPercent: dec("30"),
	})
	require.NoError(t, err)

	assert.True(t, s.Principal.Equal(dec("100000")))
	assert.True(t, s.BalloonPayment.Equal(dec("30000")))
	assert.True(t, s.FinancedPrincipal.Equal(dec("70000")))
	assert.True(t, s.InterestTotal.Equal(dec("14000")))
	assert.True(t, s.TotalPayable.Equal(dec("84000")))
	assert.True(t, s.InstallmentAmount.Equal(dec("3500")))
	assert.Equal(t, date(2027, time.March, 15), s.EndDate)
}

func TestComputeSchedule_BalloonIgnoredForInstallmentType(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:     dec("100000"),
		InterestRate:   dec("10"),
		Months:         24,
		StartDate:      date(2025, time.January, 1),
		ContractType:   ContractTypeInstallment,
		BalloonPercent: dec("30"),
	})
	require.NoError(t, err)

	assert.True(t, s.BalloonPayment.IsZero())
	assert.True(t, s.FinancedPrincipal.Equal(dec("100000")))
	assert.True(t, s.InterestTotal.Equal(dec("20000")))
	assert.True(t, s.InstallmentAmount.Equal(dec("5000")))
}

func TestComputeSchedule_DefaultsToInstallmentType(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:     dec("1200"),
		Months:         12,
		StartDate:      date(2025, time.January, 1),
		BalloonPercent: dec("50"),
	})
	require.NoError(t, err)

	assert.Equal(t, ContractTypeInstallment, s.Terms.ContractType)
	assert.True(t, s.BalloonPayment.IsZero())
	assert.True(t, s.InstallmentAmount.Equal(dec("100")))
}

func TestComputeSchedule_RoundsFractionsUp(t *testing.T) {
	// 1000 + 1000*7.5%*(7/12) = 1043.75; 1043.75 / 7 = 149.107...
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:   dec("1000"),
		InterestRate: dec("7.5"),
		Months:       7,
		StartDate:    date(2025, time.January, 1),
	})
	require.NoError(t, err)

	assert.True(t, s.InterestTotal.Equal(dec("43.75")), s.InterestTotal.String())
	assert.True(t, s.TotalPayable.Equal(dec("1043.75")))
	assert.True(t, s.InstallmentAmount.Equal(dec("150")))
}

func TestComputeSchedule_RejectsZeroMonths(t *testing.T) {
	_, err := ComputeSchedule(ScheduleTerms{
		TotalPrice: dec("1000"),
		Months:     0,
		StartDate:  date(2025, time.January, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")
}

func TestComputeSchedule_NegativePrincipalIsNotRejected(t *testing.T) {
	s, err := ComputeSchedule(ScheduleTerms{
		TotalPrice:   dec("1000"),
		DownPayment:  dec("2000"),
		InterestRate: dec("12"),
		Months:       12,
		StartDate:    date(2025, time.January, 1),
	})
	require.NoError(t, err)
	assert.True(t, s.Principal.Equal(dec("-1000")))
	assert.True(t, s.InterestTotal.IsNegative())
}

func TestComputeSchedule_Properties(t *testing.T) {
	cases := []ScheduleTerms{
		{TotalPrice: dec("45000"), DownPayment: dec("5000"), InterestRate: dec("12"), Months: 12},
		{TotalPrice: dec("99999.99"), DownPayment: dec("123.45"), InterestRate: dec("3.25"), Months: 17},
		{TotalPrice: dec("250000"), DownPayment: dec("50000"), InterestRate: dec("8.9"), Months: 48, ContractType: ContractTypeHirePurchase, BalloonPercent: dec("25")},
		{TotalPrice: dec("7777"), InterestRate: dec("0"), Months: 9},
		{TotalPrice: dec("18000.50"), DownPayment: dec("0.50"), InterestRate: dec("15"), Months: 36, ContractType: ContractTypeHirePurchase, BalloonPercent: dec("12.5")},
	}

	for _, terms := range cases {
		terms.StartDate = date(2024, time.May, 20)
		t.Run(terms.TotalPrice.String()+"/"+terms.ContractType.String(), func(t *testing.T) {
			s, err := ComputeSchedule(terms)
			require.NoError(t, err)

			// Schedule sum covers financed principal plus interest, surplus < months units
			owed := s.FinancedPrincipal.Add(s.FinancedPrincipal.Mul(terms.InterestRate).
				Mul(decimal.NewFromInt(int64(terms.Months))).Div(dec("1200")))
			surplus := s.ScheduledTotal().Sub(owed)
			assert.False(t, surplus.IsNegative(), "surplus %s", surplus)
			assert.True(t, surplus.LessThan(decimal.NewFromInt(int64(terms.Months))), "surplus %s", surplus)

			// Balloon split
			assert.True(t, s.FinancedPrincipal.Add(s.Principal.Sub(s.FinancedPrincipal)).Equal(s.Principal))
			if terms.ContractType == ContractTypeHirePurchase {
				expected := s.Principal.Mul(terms.BalloonPercent).Div(dec("100")).Round(2)
				assert.True(t, s.BalloonPayment.Equal(expected))
			}

			// Due dates advance one calendar month at a time
			require.Len(t, s.Entries, terms.Months)
			for i := 1; i < len(s.Entries); i++ {
				assert.Equal(t, s.Entries[i-1].DueDate.AddDate(0, 1, 0), s.Entries[i].DueDate)
			}
			assert.Equal(t, s.Entries[len(s.Entries)-1].DueDate, s.EndDate)
		})
	}
}

// ==================== ScheduleTerms.Validate ====================

func TestScheduleTerms_Validate(t *testing.T) {
	valid := ScheduleTerms{
		TotalPrice:   dec("45000"),
		DownPayment:  dec("5000"),
		InterestRate: dec("12"),
		Months:       12,
		StartDate:    date(2025, time.January, 1),
		ContractType: ContractTypeInstallment,
	}

	tests := []struct {
		name    string
		mutate  func(*ScheduleTerms)
		wantErr string
	}{
		{"valid", func(*ScheduleTerms) {}, ""},
		{"negative total", func(s *ScheduleTerms) { s.TotalPrice = dec("-1") }, "Total price"},
		{"negative down", func(s *ScheduleTerms) { s.DownPayment = dec("-1") }, "Down payment cannot be negative"},
		{"down exceeds total", func(s *ScheduleTerms) { s.DownPayment = dec("50000") }, "exceed"},
		{"negative rate", func(s *ScheduleTerms) { s.InterestRate = dec("-0.5") }, "Interest rate"},
		{"rate above cap", func(s *ScheduleTerms) { s.InterestRate = dec("100.01") }, "Interest rate"},
		{"rate at cap", func(s *ScheduleTerms) { s.InterestRate = dec("100") }, ""},
		{"rate with 3 decimals", func(s *ScheduleTerms) { s.InterestRate = dec("7.125") }, "decimal places"},
		{"total with fractions of a cent", func(s *ScheduleTerms) { s.TotalPrice = dec("45000.005") }, "decimal places"},
		{"down with fractions of a cent", func(s *ScheduleTerms) { s.DownPayment = dec("0.001") }, "decimal places"},
		{"trailing zeros are fine", func(s *ScheduleTerms) { s.TotalPrice = dec("45000.500") }, ""},
		{"zero months", func(s *ScheduleTerms) { s.Months = 0 }, "Installments count"},
		{"too many months", func(s *ScheduleTerms) { s.Months = MaxInstallments + 1 }, "Installments count"},
		{"missing start", func(s *ScheduleTerms) { s.StartDate = time.Time{} }, "Start date"},
		{"bad type", func(s *ScheduleTerms) { s.ContractType = "lease" }, "Contract type"},
		{"balloon over 100", func(s *ScheduleTerms) { s.BalloonPercent = dec("101") }, "Balloon"},
		{"balloon negative", func(s *ScheduleTerms) { s.BalloonPercent = dec("-5") }, "Balloon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := valid
			tt.mutate(&terms)
			err := terms.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ==================== AddMonths ====================

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"simple", date(2025, time.January, 1), 1, date(2025, time.February, 1)},
		{"year rollover", date(2025, time.November, 15), 3, date(2026, time.February, 15)},
		{"clamps to february", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"clamps to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamps to 30 day month", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"keeps day when long enough", date(2025, time.January, 31), 2, date(2025, time.March, 31)},
		{"zero", date(2025, time.June, 9), 0, date(2025, time.June, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.n))
		})
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.July, 4, 23, 59, 1, 5, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, date(2025, time.July, 4), DateOnly(in))
}
