package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/llm"
	"github.com/phantom-finance/phantomfin/internal/statement"
)

// fakeProvider replays scripted results in call order.
type fakeProvider struct {
	texts []string
	errs  []error
	calls int
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	var text string
	if i < len(f.texts) {
		text = f.texts[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return text, err
}

func makeTx(desc string, amount float64, typ statement.Type) statement.Transaction {
	return statement.Transaction{
		ID:          fmt.Sprintf("tx-%s", desc),
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      amount,
		Type:        typ,
	}
}

func aiResponse(t *testing.T, cats []Categorization) string {
	t.Helper()
	data, err := json.Marshal(cats)
	require.NoError(t, err)
	return string(data)
}

func fastClassifier(p llm.Provider) *Classifier {
	c := New(p)
	c.BatchDelay = 0
	c.RetryBackoff = 0
	return c
}

func TestClassify_NoProviderUsesHeuristic(t *testing.T) {
	t.Parallel()
	c := fastClassifier(nil)
	txs := []statement.Transaction{
		makeTx("NETFLIX.COM", 15.99, statement.Debit),
		makeTx("PAYROLL DEPOSIT", 2500, statement.Credit),
		makeTx("ONLINE XFER TO SAVINGS", 200, statement.Debit),
	}

	var gotDone, gotTotal int
	cats, err := c.Classify(context.Background(), txs, func(done, total int) {
		gotDone, gotTotal = done, total
	})
	require.NoError(t, err)
	require.Len(t, cats, 3)
	require.Equal(t, 3, gotDone)
	require.Equal(t, 3, gotTotal)

	require.Equal(t, budget.SectionMonthly, cats[0].TargetSection)
	require.Equal(t, "Subscriptions", cats[0].Category)
	require.Equal(t, budget.SectionIncome, cats[1].TargetSection)
	require.Equal(t, budget.SectionSkip, cats[2].TargetSection)
	for _, cat := range cats {
		require.Equal(t, Low, cat.Confidence) // heuristic never claims certainty
	}
}

func TestClassify_ProviderResults(t *testing.T) {
	t.Parallel()
	want := []Categorization{{
		TargetSection: budget.SectionMonthly,
		Category:      "Subscriptions",
		Confidence:    High,
		SuggestedName: "Netflix",
		Reasoning:     "streaming service",
	}}
	p := &fakeProvider{texts: []string{aiResponse(t, want)}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NETFLIX.COM", 15.99, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Equal(t, want, cats)
	require.Equal(t, 1, p.calls)
}

func TestClassify_RateLimitRetriesOnce(t *testing.T) {
	t.Parallel()
	want := []Categorization{{
		TargetSection: budget.SectionIncome,
		Category:      "income",
		Confidence:    High,
	}}
	p := &fakeProvider{
		texts: []string{"", aiResponse(t, want)},
		errs:  []error{llm.ErrRateLimited, nil},
	}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("PAYROLL", 2500, statement.Credit)}, nil)
	require.NoError(t, err)
	require.Equal(t, want, cats)
	require.Equal(t, 2, p.calls)
}

func TestClassify_DoubleRateLimitFallsBack(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{errs: []error{llm.ErrRateLimited, llm.ErrRateLimited}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NETFLIX.COM", 15.99, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, p.calls) // one retry, then the heuristic takes over
	require.Len(t, cats, 1)
	require.Equal(t, Low, cats[0].Confidence)
	require.Equal(t, "Subscriptions", cats[0].Category)
}

func TestClassify_InvalidKeyIsFatal(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{errs: []error{llm.ErrInvalidAPIKey}}
	c := fastClassifier(p)

	_, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NETFLIX.COM", 15.99, statement.Debit)}, nil)
	require.ErrorIs(t, err, llm.ErrInvalidAPIKey)
	require.Equal(t, 1, p.calls) // no retry on auth failure
}

func TestClassify_MalformedResponseFallsBack(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{texts: []string{"I cannot help with that."}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NETFLIX.COM", 15.99, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, Low, cats[0].Confidence)
}

func TestClassify_WrongLengthFallsBack(t *testing.T) {
	t.Parallel()
	two := aiResponse(t, []Categorization{
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
	})
	p := &fakeProvider{texts: []string{two}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NETFLIX.COM", 15.99, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, Low, cats[0].Confidence)
}

func TestClassify_ObjectWrappedResponse(t *testing.T) {
	t.Parallel()
	inner := aiResponse(t, []Categorization{{
		TargetSection: budget.SectionMonthly,
		Category:      "Food",
		Confidence:    High,
		SuggestedName: "Chipotle",
	}})
	p := &fakeProvider{texts: []string{`{"transactions": ` + inner + `}`}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("CHIPOTLE 0421", 12.50, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Equal(t, "Chipotle", cats[0].SuggestedName)
	require.Equal(t, High, cats[0].Confidence)
}

func TestClassify_FencedResponse(t *testing.T) {
	t.Parallel()
	inner := aiResponse(t, []Categorization{{
		TargetSection: budget.SectionDebts,
		Category:      "student",
		Confidence:    High,
	}})
	p := &fakeProvider{texts: []string{"```json\n" + inner + "\n```"}}
	c := fastClassifier(p)

	cats, err := c.Classify(context.Background(), []statement.Transaction{makeTx("NAVIENT PMT", 320, statement.Debit)}, nil)
	require.NoError(t, err)
	require.Equal(t, budget.SectionDebts, cats[0].TargetSection)
}

func TestClassify_BatchingAndProgress(t *testing.T) {
	t.Parallel()
	batch2 := aiResponse(t, []Categorization{
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
	})
	batch1 := aiResponse(t, []Categorization{
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
	})
	p := &fakeProvider{texts: []string{batch2, batch2, batch1}}
	c := fastClassifier(p)
	c.BatchSize = 2

	txs := make([]statement.Transaction, 5)
	for i := range txs {
		txs[i] = makeTx(fmt.Sprintf("STORE %d", i), 10, statement.Debit)
	}

	var progress [][2]int
	cats, err := c.Classify(context.Background(), txs, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	require.NoError(t, err)
	require.Len(t, cats, 5)
	require.Equal(t, 3, p.calls)
	require.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)
}

func TestClassify_NoDelayAfterDegradedBatch(t *testing.T) {
	t.Parallel()
	good := aiResponse(t, []Categorization{
		{TargetSection: budget.SectionMonthly, Category: "Food", Confidence: High},
	})
	p := &fakeProvider{
		texts: []string{"", good},
		errs:  []error{errors.New("service unavailable"), nil},
	}
	c := New(p)
	c.BatchSize = 1
	c.RetryBackoff = 0
	// pacing applies between successful batches only; were it applied
	// after the degraded first batch this would exceed the deadline
	c.BatchDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	txs := []statement.Transaction{
		makeTx("STORE A", 10, statement.Debit),
		makeTx("STORE B", 10, statement.Debit),
	}
	cats, err := c.Classify(ctx, txs, nil)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Equal(t, Low, cats[0].Confidence)  // heuristic fallback
	require.Equal(t, High, cats[1].Confidence) // classifier result
}

func TestClassify_CancelledContext(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{errs: []error{errors.New("network down")}}
	c := fastClassifier(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, []statement.Transaction{makeTx("STORE", 10, statement.Debit)}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNormalize_CoercesBadValues(t *testing.T) {
	t.Parallel()
	got := normalize(rawCategorization{TargetSection: "groceries", Confidence: "very sure"})
	require.Equal(t, budget.SectionMonthly, got.TargetSection)
	require.Equal(t, Low, got.Confidence)
	require.Equal(t, "Other", got.Category)
}
