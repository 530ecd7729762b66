package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/shopspring/decimal"
)

// PostJournal validates a journal draft and commits it as posted. The draft
// is rejected whole on any violation; on success the journal and all of its
// entries become visible atomically. Posted journals are append-only:
// corrections are made by posting a reversing journal, never by editing.
func (s *DefaultService) PostJournal(
	ctx context.Context,
	req models.PostJournalRequest,
) (*models.PostJournalResponse, error) {
	date, err := parseDate(req.Date, models.RuleDateFormat)
	if err != nil {
		return nil, err
	}

	if len(req.Entries) < 2 {
		return nil, &models.ValidationError{
			Rule:    models.RuleEntryCount,
			Message: "a journal needs at least a debit leg and a credit leg",
		}
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	checked := make(map[int64]bool)

	for i, entry := range req.Entries {
		if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
			return nil, &models.ValidationError{
				Rule:    models.RuleNonNegative,
				Message: fmt.Sprintf("entry %d carries a negative amount", i+1),
			}
		}

		hasDebit := !entry.Debit.IsZero()
		hasCredit := !entry.Credit.IsZero()
		if hasDebit == hasCredit {
			return nil, &models.ValidationError{
				Rule:    models.RuleSingleSideEntry,
				Message: fmt.Sprintf("entry %d must have exactly one of debit or credit", i+1),
			}
		}

		if exceedsScale(entry.Debit) || exceedsScale(entry.Credit) {
			return nil, &models.ValidationError{
				Rule:    models.RuleAmountScale,
				Message: fmt.Sprintf("entry %d has more than %d decimal places", i+1, models.AmountScale),
			}
		}

		if !checked[entry.AccountID] {
			account, err := s.repo.GetAccount(ctx, entry.AccountID)
			if err != nil {
				return nil, fmt.Errorf("error checking account: %w", err)
			}
			if account == nil {
				return nil, &models.ValidationError{
					Rule:    models.RuleAccountExists,
					Message: fmt.Sprintf("account %d does not exist", entry.AccountID),
				}
			}
			if !account.IsActive {
				return nil, &models.ValidationError{
					Rule:    models.RuleActiveAccount,
					Message: fmt.Sprintf("account %q is inactive and cannot be posted to", account.Name),
				}
			}
			checked[entry.AccountID] = true
		}

		totalDebit = totalDebit.Add(entry.Debit)
		totalCredit = totalCredit.Add(entry.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, &models.ValidationError{
			Rule: models.RuleBalancedJournal,
			Message: fmt.Sprintf("debits (%s) != credits (%s)",
				totalDebit.StringFixed(models.AmountScale),
				totalCredit.StringFixed(models.AmountScale)),
		}
	}

	journal := &models.Journal{
		ID:        uuid.New().String(),
		Date:      date,
		Narration: req.Narration,
		IsPosted:  true,
		Entries:   make([]models.JournalEntry, len(req.Entries)),
	}

	for i, entry := range req.Entries {
		journal.Entries[i] = models.JournalEntry{
			AccountID:    entry.AccountID,
			DebitAmount:  entry.Debit,
			CreditAmount: entry.Credit,
		}
	}

	// A two-leg journal links each leg to its contra account so the ledger
	// can show the opposite party as particulars.
	if len(journal.Entries) == 2 {
		first, second := journal.Entries[0].AccountID, journal.Entries[1].AccountID
		journal.Entries[0].LinkedAccountID = &second
		journal.Entries[1].LinkedAccountID = &first
	}

	if err := s.repo.CreateJournal(ctx, journal); err != nil {
		return nil, fmt.Errorf("error posting journal: %w", err)
	}

	// Re-read for the trigger-stamped timestamps
	posted, err := s.repo.GetJournal(ctx, journal.ID)
	if err != nil {
		return nil, fmt.Errorf("error reading posted journal: %w", err)
	}
	if posted == nil {
		return nil, fmt.Errorf("posted journal %s vanished before read-back", journal.ID)
	}

	return &models.PostJournalResponse{
		Status:    "success",
		Journal:   posted,
		PostedAt:  posted.CreatedAt,
		EntryRows: len(posted.Entries),
	}, nil
}

// exceedsScale reports whether d carries more fractional digits than the
// fixed amount scale.
func exceedsScale(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(models.AmountScale))
}
