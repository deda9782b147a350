package classifier

import (
	"strings"

	"github.com/phantom-finance/phantomfin/internal/budget"
	"github.com/phantom-finance/phantomfin/internal/statement"
)

// incomeCreditThreshold: credits above this are presumed income even
// without a matching keyword.
const incomeCreditThreshold = 300

var (
	incomeKeywords = []string{"payroll", "salary", "direct dep", "deposit", "paycheck", "wage", "income", "irs", "tax refund", "venmo", "zelle"}
	skipKeywords   = []string{"transfer", "xfer", "atm", "withdrawal", "payment thank"}
	debtKeywords   = []string{"loan", "mortgage", "student", "navient", "sallie", "nelnet", "auto pay"}
)

// expenseCategories maps monthly-expense sub-categories to description
// keywords, checked in order; the first hit wins.
var expenseCategories = []struct {
	category string
	keywords []string
}{
	{"Food", []string{"grocery", "walmart", "target", "costco", "kroger", "publix", "aldi", "restaurant", "mcdonald", "starbucks", "chipotle", "doordash", "uber eat", "grubhub", "pizza", "burger", "wendy", "taco bell", "chick-fil"}},
	{"Subscriptions", []string{"netflix", "spotify", "hulu", "disney", "hbo", "apple.com/bill", "youtube", "gym", "planet fitness"}},
	{"Transportation", []string{"gas", "shell", "exxon", "chevron", "bp ", "fuel", "uber", "lyft", "parking"}},
	{"Utilities", []string{"electric", "water", "gas bill", "sewage", "utility", "duke energy", "fpl"}},
	{"Internet", []string{"comcast", "spectrum", "xfinity", "fiber", "broadband", "isp"}},
	{"Phone", []string{"at&t", "att ", "verizon", "t-mobile", "tmobile", "sprint", "cricket", "mint mobile", "visible", "wireless"}},
	{"Housing", []string{"rent", "mortgage", "hoa", "property"}},
	{"Insurance", []string{"insurance", "geico", "state farm", "allstate", "progressive"}},
	{"Health", []string{"pharmacy", "cvs", "walgreen", "doctor", "hospital", "medical", "dental", "health", "clinic"}},
	{"Entertainment", []string{"movie", "cinema", "theater", "concert", "game", "entertainment"}},
	{"Personal", []string{"amazon", "amzn", "clothing", "haircut", "salon", "beauty"}},
}

// Heuristic is the offline classifier: a pure function of description,
// amount and direction. Every verdict is tagged low confidence so the
// review table flags it.
func Heuristic(tx statement.Transaction) Categorization {
	desc := strings.ToLower(tx.Description)

	if tx.Type == statement.Credit {
		if tx.Amount > incomeCreditThreshold || containsAny(desc, incomeKeywords) {
			return lowConfidence(budget.SectionIncome, "income", "Credit transaction, likely income")
		}
		return lowConfidence(budget.SectionSkip, "skip", "Small credit, may be a refund or transfer")
	}

	if containsAny(desc, skipKeywords) {
		return lowConfidence(budget.SectionSkip, "skip", "Looks like a transfer or ATM withdrawal")
	}

	if containsAny(desc, debtKeywords) {
		return lowConfidence(budget.SectionDebts, "loan", "Contains debt-related keywords")
	}

	category := "General"
	for _, ec := range expenseCategories {
		if containsAny(desc, ec.keywords) {
			category = ec.category
			break
		}
	}
	return lowConfidence(budget.SectionMonthly, category, "No API key, basic categorization")
}

func lowConfidence(section budget.Section, category, reasoning string) Categorization {
	return Categorization{
		TargetSection: section,
		Category:      category,
		Confidence:    Low,
		Reasoning:     reasoning,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
