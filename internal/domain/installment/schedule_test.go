package installment

import (
	"testing"
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedule(t *testing.T) {
	due := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency types.Frequency
		total     int
		amount    decimal.Decimal
		rate      decimal.Decimal
		firstDue  time.Time
		checkErr  func(error) bool
	}{
		{
			name:      "valid",
			frequency: types.FrequencyMonthly,
			total:     12,
			amount:    decimal.NewFromInt(2000),
			rate:      decimal.NewFromFloat(10.5),
			firstDue:  due,
		},
		{
			name:      "unknown frequency",
			frequency: types.Frequency("WEEKLY"),
			total:     12,
			amount:    decimal.NewFromInt(2000),
			firstDue:  due,
			checkErr:  ierr.IsValidation,
		},
		{
			name:      "no installments",
			frequency: types.FrequencyMonthly,
			amount:    decimal.NewFromInt(2000),
			firstDue:  due,
			checkErr:  ierr.IsValidation,
		},
		{
			name:      "zero amount",
			frequency: types.FrequencyMonthly,
			total:     3,
			amount:    decimal.Zero,
			firstDue:  due,
			checkErr:  ierr.IsInvalidAmount,
		},
		{
			name:      "negative rate",
			frequency: types.FrequencyMonthly,
			total:     3,
			amount:    decimal.NewFromInt(1),
			rate:      decimal.NewFromInt(-1),
			firstDue:  due,
			checkErr:  ierr.IsInvalidAmount,
		},
		{
			name:      "missing first due date",
			frequency: types.FrequencyMonthly,
			total:     3,
			amount:    decimal.NewFromInt(1),
			checkErr:  ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchedule(tt.rate, tt.frequency, tt.total, tt.amount, tt.firstDue)
			if tt.checkErr != nil {
				require.Error(t, err)
				assert.True(t, tt.checkErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total, s.RemainingInstallments)
			assert.Zero(t, s.PaidInstallments)
			assert.Nil(t, s.LastPaidDate)
			assert.Equal(t, tt.firstDue, s.NextDueDate)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestScheduleRecordPayment(t *testing.T) {
	due := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	s, err := NewSchedule(decimal.Zero, types.FrequencyMonthly, 2, decimal.NewFromInt(2000), due)
	require.NoError(t, err)

	paidOn := due.AddDate(0, 0, -2)
	first, err := s.RecordPayment(decimal.Zero, decimal.NewFromInt(2000), paidOn)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PaidInstallments)
	assert.Equal(t, 1, first.RemainingInstallments)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), first.NextDueDate)
	require.NotNil(t, first.LastPaidDate)
	assert.Equal(t, paidOn, *first.LastPaidDate)
	assert.False(t, first.IsComplete())

	// the receiver is left untouched
	assert.Equal(t, 0, s.PaidInstallments)
	assert.Equal(t, due, s.NextDueDate)

	_, err = first.RecordPayment(decimal.Zero, decimal.Zero, paidOn)
	assert.True(t, ierr.IsInvalidAmount(err))
	// a negative side is rejected even when the sum is positive
	_, err = first.RecordPayment(decimal.NewFromInt(-1), decimal.NewFromInt(5), paidOn)
	assert.True(t, ierr.IsInvalidAmount(err))

	second, err := first.RecordPayment(decimal.NewFromInt(500), decimal.NewFromInt(1500), paidOn)
	require.NoError(t, err)
	assert.True(t, second.IsComplete())
	assert.NoError(t, second.Validate())

	_, err = second.RecordPayment(decimal.NewFromInt(2000), decimal.Zero, paidOn)
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}

func TestScheduleIsOverdue(t *testing.T) {
	due := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	s, err := NewSchedule(decimal.Zero, types.FrequencyQuarterly, 1, decimal.NewFromInt(100), due)
	require.NoError(t, err)

	assert.False(t, s.IsOverdue(due.Add(23*time.Hour)))
	assert.True(t, s.IsOverdue(due.AddDate(0, 0, 1)))

	paid, err := s.RecordPayment(decimal.NewFromInt(100), decimal.Zero, due)
	require.NoError(t, err)
	assert.False(t, paid.IsOverdue(due.AddDate(1, 0, 0)))
}

func TestScheduleValidate(t *testing.T) {
	s := Schedule{
		Frequency:             types.FrequencyYearly,
		TotalInstallments:     3,
		PaidInstallments:      2,
		RemainingInstallments: 2,
	}
	assert.True(t, ierr.IsValidation(s.Validate()))
}
