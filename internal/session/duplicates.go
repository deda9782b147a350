package session

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/phantom-finance/phantomfin/internal/statement"
)

// flagDuplicates marks probable repeats within one statement: same amount,
// within a week, and near-identical descriptions. The later row gets the
// flag so the first occurrence reads as the original.
func flagDuplicates(txs []statement.Transaction) map[string]bool {
	dupes := map[string]bool{}
	for i := 1; i < len(txs); i++ {
		for j := 0; j < i; j++ {
			if fuzzyMatch(txs[j], txs[i]) {
				dupes[txs[i].ID] = true
				break
			}
		}
	}
	return dupes
}

func fuzzyMatch(a, b statement.Transaction) bool {
	if a.Amount != b.Amount || a.Type != b.Type {
		return false
	}
	if daysApart(a, b) > 7 {
		return false
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a.Description), strings.ToUpper(b.Description))
	maxlen := len(a.Description)
	if len(b.Description) > maxlen {
		maxlen = len(b.Description)
	}
	if maxlen == 0 {
		return false
	}
	return float64(dist)/float64(maxlen) < 0.4
}

func daysApart(a, b statement.Transaction) int {
	d := a.Date.Sub(b.Date)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
