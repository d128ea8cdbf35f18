package wallet

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// EntryType classifies a ledger entry. Together with the courier and delivery
// identifiers it forms the uniqueness triple that makes duplicate charges for
// the same delivery impossible.
type EntryType int

const (
	// EntryTypeUnknown represents an invalid or undefined entry type.
	EntryTypeUnknown EntryType = iota

	// EntryTypeFeeDebit is the debit of the delivery fee at capture time.
	EntryTypeFeeDebit

	// EntryTypeCompletedCredit is a credit granted when a delivery completes.
	EntryTypeCompletedCredit

	// EntryTypeManualCredit is an operator-initiated balance top-up.
	EntryTypeManualCredit

	// EntryTypeManualDebit is an operator-initiated balance deduction.
	EntryTypeManualDebit

	// EntryTypeRefund reverses a fee debit when a captured delivery is released.
	EntryTypeRefund
)

func getEntryTypeStrings() map[EntryType]string {
	return map[EntryType]string{
		EntryTypeUnknown:         "Unknown",
		EntryTypeFeeDebit:        "FeeDebit",
		EntryTypeCompletedCredit: "CompletedCredit",
		EntryTypeManualCredit:    "ManualCredit",
		EntryTypeManualDebit:     "ManualDebit",
		EntryTypeRefund:          "Refund",
	}
}

// Validate checks if the EntryType value is one of the defined types.
func (t EntryType) Validate() error {
	if t == EntryTypeUnknown {
		return errs.NewValueIsInvalidError("entry type is required")
	}
	if _, ok := getEntryTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("entry type is invalid",
			fmt.Errorf("%d is not a valid entry type", t))
	}
	return nil
}

// String returns the human-readable name of the entry type.
func (t EntryType) String() string {
	if str, ok := getEntryTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}
