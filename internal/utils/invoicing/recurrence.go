package invoicing

import (
	"fmt"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// NextOccurrence returns the date a recurring invoice is next due to be generated.
//
// Month based intervals use time.AddDate, which normalizes overflow: one
// month after 2024-01-31 is 2024-03-02.
func NextOccurrence(from time.Time, interval domain.RecurringInterval) (time.Time, error) {
	switch interval {
	case domain.IntervalWeekly:
		return from.AddDate(0, 0, 7), nil
	case domain.IntervalBiweekly:
		return from.AddDate(0, 0, 14), nil
	case domain.IntervalMonthly:
		return from.AddDate(0, 1, 0), nil
	case domain.IntervalQuarterly:
		return from.AddDate(0, 3, 0), nil
	case domain.IntervalYearly:
		return from.AddDate(0, 12, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown recurring interval %q", apperrors.ErrValidation, interval)
}
