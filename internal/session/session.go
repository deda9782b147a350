// Package session drives a statement import from upload through review to
// commit. It owns the parsed transactions, their categorizations and the
// review selections; the TUI renders from it and the store only sees the
// final commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/classifier"
	"github.com/phantom-finance/phantomfin/internal/notify"
	"github.com/phantom-finance/phantomfin/internal/statement"
	"github.com/phantom-finance/phantomfin/internal/store"
)

// Step is the import wizard stage.
type Step string

const (
	StepUpload       Step = "upload"
	StepParsing      Step = "parsing"
	StepCategorizing Step = "categorizing"
	StepReview       Step = "review"
	StepDone         Step = "done"
)

// Filter narrows the review table.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterNeedsReview Filter = "needs-review"
	FilterIncome      Filter = "income"
	FilterExpense     Filter = "expense"
	FilterSkip        Filter = "skip"
)

var ErrNotInReview = errors.New("import session is not in review")

// Row is one line of the review table.
type Row struct {
	Tx        statement.Transaction
	Cat       classifier.Categorization
	Selected  bool
	Duplicate bool
}

// Session is safe for concurrent use; the TUI mutates it from command
// goroutines while the view reads it.
type Session struct {
	mu sync.Mutex

	store      *store.Store
	classifier *classifier.Classifier
	notifier   notify.Notifier

	step     Step
	fileName string
	txs      []statement.Transaction
	cats     []classifier.Categorization
	selected map[string]bool
	dupes    map[string]bool
	filter   Filter

	// generation guards against a stale classify finishing after a restart
	generation int

	progressDone  int
	progressTotal int
}

func New(st *store.Store, cl *classifier.Classifier, n notify.Notifier) *Session {
	if n == nil {
		n = notify.Discard
	}
	return &Session{
		store:      st,
		classifier: cl,
		notifier:   n,
		step:       StepUpload,
		selected:   map[string]bool{},
		dupes:      map[string]bool{},
		filter:     FilterAll,
	}
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Reset abandons the current import and returns to upload. Any in-flight
// classification becomes stale and its result is dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.step = StepUpload
	s.fileName = ""
	s.txs = nil
	s.cats = nil
	s.selected = map[string]bool{}
	s.dupes = map[string]bool{}
	s.filter = FilterAll
	s.progressDone = 0
	s.progressTotal = 0
}

// Parse reads and normalizes the statement. On success the session holds
// the transactions with duplicates flagged and moves to categorizing; on
// failure it returns to upload.
func (s *Session) Parse(name string, r io.Reader) error {
	s.mu.Lock()
	s.step = StepParsing
	s.fileName = name
	s.mu.Unlock()

	txs, err := statement.Parse(name, r)
	if err != nil {
		s.mu.Lock()
		s.step = StepUpload
		s.mu.Unlock()
		s.notifier.Signal(err.Error(), notify.Error)
		return err
	}

	s.mu.Lock()
	s.txs = txs
	s.dupes = flagDuplicates(txs)
	s.progressDone = 0
	s.progressTotal = len(txs)
	s.step = StepCategorizing
	s.mu.Unlock()

	s.notifier.Signal(fmt.Sprintf("Parsed %d transactions from %s", len(txs), name), notify.Info)
	return nil
}

// Classify runs the classifier over the parsed transactions and moves the
// session to review. An invalid credential aborts the whole import: the
// error is reported and the session returns to upload.
func (s *Session) Classify(ctx context.Context) error {
	s.mu.Lock()
	if s.step != StepCategorizing {
		s.mu.Unlock()
		return fmt.Errorf("classify: step is %s", s.step)
	}
	s.generation++
	gen := s.generation
	txs := s.txs
	s.mu.Unlock()

	cats, err := s.classifier.Classify(ctx, txs, func(done, total int) {
		s.mu.Lock()
		if s.generation == gen {
			s.progressDone, s.progressTotal = done, total
		}
		s.mu.Unlock()
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.mu.Lock()
		current := s.generation == gen
		s.mu.Unlock()
		if current {
			s.notifier.Signal(err.Error(), notify.Error)
			s.Reset()
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// restarted while classifying; drop the stale result
		return nil
	}
	s.cats = cats
	s.selected = map[string]bool{}
	for _, tx := range txs {
		s.selected[tx.ID] = true
	}
	s.progressDone = s.progressTotal
	s.step = StepReview
	return nil
}

// Progress reports classification progress as (done, total).
func (s *Session) Progress() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressDone, s.progressTotal
}

func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Rows returns the review rows matching the current filter, in statement
// order.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]Row, 0, len(s.txs))
	for i, tx := range s.txs {
		if i >= len(s.cats) {
			break
		}
		r := Row{
			Tx:        tx,
			Cat:       s.cats[i],
			Selected:  s.selected[tx.ID],
			Duplicate: s.dupes[tx.ID],
		}
		if s.matchesFilter(r) {
			rows = append(rows, r)
		}
	}
	return rows
}

func (s *Session) matchesFilter(r Row) bool {
	switch s.filter {
	case FilterNeedsReview:
		return r.Cat.Confidence == classifier.Low || r.Duplicate
	case FilterIncome:
		return r.Cat.TargetSection == budget.SectionIncome
	case FilterExpense:
		switch r.Cat.TargetSection {
		case budget.SectionMonthly, budget.SectionDebts, budget.SectionBusiness, budget.SectionAnnual:
			return true
		}
		return false
	case FilterSkip:
		return r.Cat.TargetSection == budget.SectionSkip
	default:
		return true
	}
}

// Stats summarizes the review state regardless of the active filter.
type Stats struct {
	Total      int
	Selected   int
	NeedReview int
	Duplicates int
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.txs)}
	for i, tx := range s.txs {
		if s.selected[tx.ID] {
			st.Selected++
		}
		if s.dupes[tx.ID] {
			st.Duplicates++
		}
		if i < len(s.cats) && s.cats[i].Confidence == classifier.Low {
			st.NeedReview++
		}
	}
	return st
}

// ToggleSelected flips whether the transaction will be committed.
func (s *Session) ToggleSelected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		s.selected[id] = !s.selected[id]
	}
}

// SetSelectedAll selects or deselects every transaction.
func (s *Session) SetSelectedAll(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.selected {
		s.selected[id] = on
	}
}

// SetSection retargets a transaction and resets its category to the new
// section's default, since vocabularies do not overlap.
func (s *Session) SetSection(id string, section budget.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 || i >= len(s.cats) {
		return
	}
	s.cats[i].TargetSection = section
	s.cats[i].Category = budget.DefaultCategory(section)
}

func (s *Session) SetCategory(id, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 || i >= len(s.cats) {
		return
	}
	s.cats[i].Category = category
}

func (s *Session) indexOf(id string) int {
	for i, tx := range s.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
