package session

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/notify"
	"github.com/phantom-finance/phantomfin/internal/statement"
)

// Summary is the outcome of a commit. Skipped counts selected rows whose
// target is the skip pseudo-section; unselected rows are not counted.
type Summary struct {
	Added   map[budget.Section]int
	Skipped int
}

// Total counts committed records across all sections.
func (s Summary) Total() int {
	var n int
	for _, c := range s.Added {
		n += c
	}
	return n
}

// Message renders the summary for the status line.
func (s Summary) Message() string {
	if s.Total() == 0 {
		return "Nothing imported"
	}
	parts := make([]string, 0, len(s.Added))
	for _, sec := range budget.Sections {
		if c := s.Added[sec]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d to %s", c, sec.Label()))
		}
	}
	msg := fmt.Sprintf("Imported %d transactions: %s", s.Total(), strings.Join(parts, ", "))
	if s.Skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", s.Skipped)
	}
	return msg
}

// Commit appends every selected, non-skip transaction to its target section
// in one document mutation, then finishes the session. Records are only
// added, never merged with existing ones.
func (s *Session) Commit() (Summary, error) {
	s.mu.Lock()
	if s.step != StepReview {
		s.mu.Unlock()
		return Summary{}, ErrNotInReview
	}
	type entry struct {
		tx  statement.Transaction
		cat string
		sec budget.Section
		nm  string
	}
	entries := make([]entry, 0, len(s.txs))
	summary := Summary{Added: map[budget.Section]int{}}
	for i, tx := range s.txs {
		if i >= len(s.cats) {
			break
		}
		cat := s.cats[i]
		if !s.selected[tx.ID] {
			continue
		}
		if cat.TargetSection == budget.SectionSkip {
			summary.Skipped++
			continue
		}
		name := strings.TrimSpace(cat.SuggestedName)
		if name == "" {
			name = tx.Description
		}
		entries = append(entries, entry{tx: tx, cat: cat.Category, sec: cat.TargetSection, nm: name})
	}
	s.mu.Unlock()

	err := s.store.Mutate(func(doc *budget.Document) {
		for _, e := range entries {
			switch e.sec {
			case budget.SectionIncome:
				doc.Income = append(doc.Income, budget.Income{
					ID:        uuid.NewString(),
					Name:      e.nm,
					Amount:    e.tx.Amount,
					Frequency: "monthly",
				})
			case budget.SectionMonthly:
				doc.MonthlyExpenses = append(doc.MonthlyExpenses, budget.MonthlyExpense{
					ID:       uuid.NewString(),
					Name:     e.nm,
					Amount:   e.tx.Amount,
					Category: e.cat,
					DueDay:   e.tx.Date.Day(),
					AutoPay:  false,
				})
			case budget.SectionDebts:
				doc.Debts = append(doc.Debts, budget.Debt{
					ID:             uuid.NewString(),
					Name:           e.nm,
					MonthlyPayment: e.tx.Amount,
					DueDay:         e.tx.Date.Day(),
					Category:       e.cat,
					Notes:          "Imported from bank statement " + time.Now().Format("Jan 2, 2006"),
				})
			case budget.SectionBusiness:
				doc.BusinessExpenses = append(doc.BusinessExpenses, budget.BusinessExpense{
					ID:          uuid.NewString(),
					Name:        e.nm,
					MonthlyCost: e.tx.Amount,
					AnnualCost:  math.Round(e.tx.Amount*12*100) / 100,
					Category:    e.cat,
				})
			case budget.SectionAnnual:
				doc.AnnualBudget = append(doc.AnnualBudget, budget.AnnualItem{
					ID:       uuid.NewString(),
					Name:     e.nm,
					Amount:   e.tx.Amount,
					IsIncome: e.tx.Type == statement.Credit,
				})
			}
			summary.Added[e.sec]++
		}
	})
	if err != nil {
		s.notifier.Signal("Import failed: "+err.Error(), notify.Error)
		return Summary{}, err
	}

	s.mu.Lock()
	s.step = StepDone
	s.mu.Unlock()

	s.notifier.Signal(summary.Message(), notify.Success)
	return summary, nil
}
