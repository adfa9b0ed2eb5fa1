package types

import (
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/samber/lo"
)

// Frequency is the spacing between installment due dates
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

func (f Frequency) Validate() error {
	allowedValues := []Frequency{FrequencyMonthly, FrequencyQuarterly, FrequencyYearly}
	if !lo.Contains(allowedValues, f) {
		return ierr.NewError("invalid installment frequency").
			WithHint("Frequency must be MONTHLY, QUARTERLY or YEARLY").
			WithReportableDetails(map[string]any{
				"allowed":   allowedValues,
				"frequency": f,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Advance moves a due date forward by one step of f.
// Unrecognised frequencies advance by one month.
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case FrequencyQuarterly:
		return AddClampedDate(t, 0, 3, 0)
	case FrequencyYearly:
		return AddClampedDate(t, 1, 0, 0)
	default:
		return AddClampedDate(t, 0, 1, 0)
	}
}
