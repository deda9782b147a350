package statement

import (
	"strconv"
	"strings"
	"time"
)

// columnMap holds the inferred index of each column role; -1 means absent.
type columnMap struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
}

var (
	dateKeywords   = []string{"date", "fecha", "posted", "transaction date", "posting date", "trans date", "effective date"}
	descKeywords   = []string{"description", "memo", "payee", "details", "narrative", "merchant", "name", "transaction description", "reference"}
	amountKeywords = []string{"amount", "monto", "value", "total", "transaction amount"}
	debitKeywords  = []string{"debit", "withdrawal", "charge", "debits", "withdrawals"}
	creditKeywords = []string{"credit", "deposit", "credits", "deposits"}
)

// detectColumns infers column roles from lower-cased header cells by
// substring match, first hit wins per role. Positional fallbacks cover
// headerless-looking exports: column 0 as date, the next as description, and
// the last column as amount when no money column was recognized at all.
func detectColumns(headers []string) columnMap {
	m := columnMap{date: -1, description: -1, amount: -1, debit: -1, credit: -1}

	for i, h := range headers {
		if m.date == -1 && matchesAny(h, dateKeywords) {
			m.date = i
		}
		if m.description == -1 && matchesAny(h, descKeywords) {
			m.description = i
		}
		if m.amount == -1 && matchesAny(h, amountKeywords) {
			m.amount = i
		}
		if m.debit == -1 && matchesAny(h, debitKeywords) {
			m.debit = i
		}
		if m.credit == -1 && matchesAny(h, creditKeywords) {
			m.credit = i
		}
	}

	if m.date == -1 {
		m.date = 0
	}
	if m.description == -1 {
		if m.date == 0 {
			m.description = 1
		} else {
			m.description = 0
		}
	}
	if m.amount == -1 && m.debit == -1 && m.credit == -1 {
		m.amount = len(headers) - 1
	}
	return m
}

func matchesAny(header string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(header, k) {
			return true
		}
	}
	return false
}

// parseMoney reads a monetary cell: currency symbols and thousands
// separators are stripped and a parenthesized value is negative.
// Unparseable text yields 0.
func parseMoney(val string) float64 {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0
	}
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	s = strings.NewReplacer("(", "", ")", "", "$", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -num
	}
	return num
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// parseDate tries common layouts first, then falls back to splitting into
// three numeric parts and placing the year by magnitude. Years at or below
// 1990 are treated as misparses (Excel serials and two-digit years land
// there).
func parseDate(val string) (time.Time, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil && t.Year() > 1990 {
			return t, true
		}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' })
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	a, b, c := nums[0], nums[1], nums[2]
	if c > 31 && validMonthDay(a, b) {
		return time.Date(c, time.Month(a), b, 0, 0, 0, 0, time.UTC), true
	}
	if a > 31 && validMonthDay(b, c) {
		return time.Date(a, time.Month(b), c, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
