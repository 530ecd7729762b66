package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MigrationError reports a failed schema migration step. It is fatal to
// startup: the step's transaction has been rolled back and no later step
// was attempted.
type MigrationError struct {
	Seq  int
	Name string
	Err  error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %03d_%s failed: %v", e.Seq, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// ValidationError reports a domain-invariant violation on a write. Nothing
// has been written; the caller may correct the input and retry.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Message)
}

// Validation rule identifiers surfaced in ValidationError.Rule.
const (
	RuleBalancedJournal  = "balanced-journal"
	RuleSingleSideEntry  = "single-side-entry"
	RuleNonNegative      = "non-negative-amount"
	RuleAmountScale      = "amount-scale"
	RuleActiveAccount    = "active-account"
	RuleAccountExists    = "account-exists"
	RuleChartExists      = "chart-exists"
	RuleChartDepth       = "chart-depth"
	RuleChartType        = "chart-type"
	RuleDuplicateChart   = "duplicate-chart"
	RuleDuplicateAccount = "duplicate-account"
	RuleDateFormat       = "date-format"
	RuleEntryCount       = "entry-count"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IntegrityError reports that a derived computation failed its invariant
// check. The underlying data may be inconsistent; it is reported loudly and
// never auto-corrected.
type IntegrityError struct {
	Message    string
	Difference decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed: %s (difference %s)",
		e.Message, e.Difference.StringFixed(AmountScale))
}
