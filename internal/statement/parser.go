// Package statement parses bank-statement exports (CSV and Excel) into a
// normalized transaction sequence without assuming a fixed column schema.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type (use .csv, .xlsx, or .xls)")
	ErrEmptyStatement    = errors.New("statement appears empty or has no data rows")
	ErrNoValidRows       = errors.New("no valid transactions found in the statement")
)

// Type is the direction of a transaction. Amounts are stored as non-negative
// magnitudes; direction lives only here.
type Type string

const (
	Debit  Type = "debit"
	Credit Type = "credit"
)

// Transaction is one normalized statement row. The original cells are kept
// for audit display in the review table.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      float64
	Type        Type
	OriginalRow []string
}

// Parse converts a statement file into transactions, in source row order.
// The file format is chosen by extension; workbooks read the first sheet
// only.
func Parse(name string, r io.Reader) ([]Transaction, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx", ".xls":
		return parseWorkbook(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
	}
}

func parseCSV(r io.Reader) ([]Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	csvr := csv.NewReader(bytes.NewReader(data))
	csvr.Comma = detectDelimiter(firstLine(data))
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	csvr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a malformed line rejects that row only
			continue
		}
		if blankRow(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyStatement
	}

	return extractAll(rows, 0)
}

// extractAll runs column inference on the header at headerIdx and converts
// every following row, rejecting invalid ones.
func extractAll(rows [][]string, headerIdx int) ([]Transaction, error) {
	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	mapping := detectColumns(header)

	var txs []Transaction
	for _, row := range rows[headerIdx+1:] {
		cols := make([]string, len(row))
		for i, c := range row {
			cols[i] = strings.TrimSpace(c)
		}
		if tx, ok := extractTransaction(cols, mapping); ok {
			txs = append(txs, tx)
		}
	}
	if len(txs) == 0 {
		return nil, ErrNoValidRows
	}
	return txs, nil
}

func extractTransaction(cols []string, m columnMap) (Transaction, bool) {
	if len(cols) < 2 {
		return Transaction{}, false
	}

	desc := cell(cols, m.description)
	if desc == "" || isAggregateLabel(desc) {
		return Transaction{}, false
	}

	var amount float64
	var typ Type
	switch {
	case m.debit != -1 && m.credit != -1:
		debitVal := parseMoney(cell(cols, m.debit))
		creditVal := parseMoney(cell(cols, m.credit))
		switch {
		case creditVal > 0:
			amount, typ = creditVal, Credit
		case debitVal > 0:
			amount, typ = debitVal, Debit
		default:
			return Transaction{}, false // no amount
		}
	case m.amount != -1:
		raw := parseMoney(cell(cols, m.amount))
		if raw == 0 {
			return Transaction{}, false
		}
		typ = Debit
		if raw > 0 {
			typ = Credit
		}
		amount = raw
		if amount < 0 {
			amount = -amount
		}
	default:
		return Transaction{}, false
	}

	date, ok := parseDate(cell(cols, m.date))
	if !ok {
		// never reject a row for a bad date
		date = time.Now()
	}

	return Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Description: desc,
		Amount:      roundCents(amount),
		Type:        typ,
		OriginalRow: cols,
	}, true
}

// aggregateLabels mark summary rows that are not transactions; they are
// matched as leading word or exact cell, case-insensitive.
var aggregateLabels = []string{
	"total", "balance", "opening", "closing", "beginning", "ending", "header", "subtotal",
}

func isAggregateLabel(desc string) bool {
	lower := strings.ToLower(desc)
	for _, w := range aggregateLabels {
		if lower == w || strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return false
}

func detectDelimiter(line string) rune {
	counts := map[rune]int{',': 0, '\t': 0, ';': 0, '|': 0}
	for _, ch := range line {
		if _, ok := counts[ch]; ok {
			counts[ch]++
		}
	}
	best, bestCount := ',', -1
	for _, cand := range []rune{',', '\t', ';', '|'} {
		if counts[cand] > bestCount {
			best, bestCount = cand, counts[cand]
		}
	}
	return best
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return strings.TrimRight(string(data), "\r")
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[i])
}

func roundCents(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
