// Package classifier assigns each parsed transaction a budget section,
// sub-category, confidence and display name, via the AI provider when a
// credential is configured and a deterministic keyword heuristic otherwise.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/llm"
	"github.com/phantom-finance/phantomfin/internal/statement"
)

// Confidence is the classifier's certainty for one verdict.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Categorization is the verdict for one transaction; the result slice is
// 1:1 index-aligned with the input and the commit step relies on that.
type Categorization struct {
	TargetSection budget.Section `json:"targetSection"`
	Category      string         `json:"category"`
	Confidence    Confidence     `json:"confidence"`
	SuggestedName string         `json:"suggestedName"`
	Reasoning     string         `json:"reasoning"`
}

const (
	defaultBatchSize    = 25
	defaultBatchDelay   = 250 * time.Millisecond
	defaultRetryBackoff = 2 * time.Second
)

// Classifier batches transactions through the provider, retrying once on
// rate limits and degrading to the heuristic per batch on any other
// failure. A nil Provider means no credential: everything goes through the
// heuristic without any network call.
type Classifier struct {
	Provider llm.Provider

	// delays are fields so tests run without sleeping
	BatchSize    int
	BatchDelay   time.Duration
	RetryBackoff time.Duration
}

// New returns a classifier with production pacing.
func New(provider llm.Provider) *Classifier {
	return &Classifier{
		Provider:     provider,
		BatchSize:    defaultBatchSize,
		BatchDelay:   defaultBatchDelay,
		RetryBackoff: defaultRetryBackoff,
	}
}

// batchItem is the only transaction data sent to the service: no record
// ids, no raw source cells.
type batchItem struct {
	Index       int     `json:"index"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// Classify returns one categorization per transaction, in order. onProgress
// (optional) fires after every batch, monotonically, ending at
// (total, total). The only fatal error is an invalid credential; every
// other failure degrades that batch to the heuristic.
func (c *Classifier) Classify(ctx context.Context, txs []statement.Transaction, onProgress func(done, total int)) ([]Categorization, error) {
	total := len(txs)
	progress := func(done int) {
		if onProgress != nil {
			onProgress(done, total)
		}
	}

	if c.Provider == nil {
		out := make([]Categorization, 0, total)
		for _, tx := range txs {
			out = append(out, Heuristic(tx))
		}
		progress(total)
		return out, nil
	}

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	results := make([]Categorization, 0, total)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := txs[start:end]

		cats, degraded, err := c.classifyBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		results = append(results, cats...)
		progress(end)

		// the pacing delay applies between successful batches only
		if end < total && !degraded {
			if err := sleepCtx(ctx, c.BatchDelay); err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}

// classifyBatch submits one batch, retrying exactly once after a backoff on
// a rate limit. Everything except an auth failure falls back to the
// heuristic for this batch only; degraded reports that fallback.
func (c *Classifier) classifyBatch(ctx context.Context, batch []statement.Transaction) ([]Categorization, bool, error) {
	items := make([]batchItem, len(batch))
	for i, tx := range batch {
		items[i] = batchItem{Index: i, Description: tx.Description, Amount: tx.Amount, Type: string(tx.Type)}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, false, fmt.Errorf("encode batch: %w", err)
	}

	text, err := c.Provider.Complete(ctx, systemPrompt, string(payload))
	if errors.Is(err, llm.ErrRateLimited) {
		if serr := sleepCtx(ctx, c.RetryBackoff); serr != nil {
			return nil, false, serr
		}
		text, err = c.Provider.Complete(ctx, systemPrompt, string(payload))
	}
	switch {
	case errors.Is(err, llm.ErrInvalidAPIKey), errors.Is(err, llm.ErrNoAPIKey):
		return nil, false, fmt.Errorf("ai categorization unavailable: %w", err)
	case err != nil:
		if ctx.Err() != nil {
			// caller cancelled; a provider-side timeout falls through
			// to the heuristic instead
			return nil, false, ctx.Err()
		}
		return heuristicAll(batch), true, nil
	}

	cats, err := parseResponse(text, len(batch))
	if err != nil {
		return heuristicAll(batch), true, nil
	}
	return cats, false, nil
}

func heuristicAll(batch []statement.Transaction) []Categorization {
	out := make([]Categorization, len(batch))
	for i, tx := range batch {
		out[i] = Heuristic(tx)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
