package types

import (
	"time"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
)

// ReadMode controls how listing queries treat records that fail to decode
type ReadMode string

const (
	// ReadModeStrict fails the whole listing on the first malformed record
	ReadModeStrict ReadMode = "strict"
	// ReadModeLenient skips malformed records with a warning
	ReadModeLenient ReadMode = "lenient"
)

// TransactionFilter selects person transactions. At most one of the
// person, type and date range criteria is expected; when several are set
// they are combined with AND.
type TransactionFilter struct {
	PersonRef string           `json:"person_ref,omitempty" form:"person_ref"`
	Type      *TransactionType `json:"type,omitempty" form:"type"`
	StartDate *time.Time       `json:"start_date,omitempty" form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time       `json:"end_date,omitempty" form:"end_date" time_format:"2006-01-02"`
	Mode      ReadMode         `json:"-" form:"-"`
}

// NewTransactionFilter returns a strict filter with no criteria
func NewTransactionFilter() *TransactionFilter {
	return &TransactionFilter{Mode: ReadModeStrict}
}

// IsLenient reports whether malformed records should be skipped
func (f *TransactionFilter) IsLenient() bool {
	return f != nil && f.Mode == ReadModeLenient
}

func (f *TransactionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Type != nil {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if (f.StartDate == nil) != (f.EndDate == nil) {
		return ierr.NewError("date range requires both start and end").
			WithHint("Both start_date and end_date are required for a date range").
			Mark(ierr.ErrValidation)
	}
	if f.StartDate != nil && f.EndDate.Before(*f.StartDate) {
		return ierr.NewError("end date before start date").
			WithHint("end_date must not be before start_date").
			WithReportableDetails(map[string]any{
				"start_date": f.StartDate,
				"end_date":   f.EndDate,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Matches applies the filter in memory
func (f *TransactionFilter) Matches(personRef string, txType TransactionType, date time.Time) bool {
	if f == nil {
		return true
	}
	if f.PersonRef != "" && f.PersonRef != personRef {
		return false
	}
	if f.Type != nil && *f.Type != txType {
		return false
	}
	if f.StartDate != nil && date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && date.After(*f.EndDate) {
		return false
	}
	return true
}
