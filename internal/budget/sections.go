package budget

// Section identifies one of the budget areas an imported transaction can
// land in. Skip is a pseudo-section: rows assigned to it are never committed.
type Section string

const (
	SectionIncome   Section = "income"
	SectionMonthly  Section = "monthlyExpenses"
	SectionDebts    Section = "debts"
	SectionBusiness Section = "businessExpenses"
	SectionAnnual   Section = "annualBudget"
	SectionSkip     Section = "skip"
)

// Sections lists every section in display order.
var Sections = []Section{
	SectionIncome,
	SectionMonthly,
	SectionDebts,
	SectionBusiness,
	SectionAnnual,
	SectionSkip,
}

var sectionLabels = map[Section]string{
	SectionIncome:   "Income",
	SectionMonthly:  "Monthly Expense",
	SectionDebts:    "Debt Payment",
	SectionBusiness: "Business Expense",
	SectionAnnual:   "Annual Budget",
	SectionSkip:     "Skip",
}

func (s Section) Valid() bool {
	_, ok := sectionLabels[s]
	return ok
}

func (s Section) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return string(s)
}

// CategoryOption is one entry of a section's closed category vocabulary.
type CategoryOption struct {
	Value string
	Label string
}

var sectionCategories = map[Section][]CategoryOption{
	SectionIncome: {{Value: "income", Label: "Income"}},
	SectionMonthly: plain(
		"Housing", "Utilities", "Food", "Transportation", "Insurance",
		"Health", "Entertainment", "Phone", "Internet", "Subscriptions",
		"Personal", "Business", "General",
	),
	SectionDebts: {
		{Value: "general", Label: "General"},
		{Value: "credit-card", Label: "Credit Card"},
		{Value: "loan", Label: "Loan"},
		{Value: "mortgage", Label: "Mortgage"},
		{Value: "auto", Label: "Auto"},
		{Value: "student", Label: "Student Loan"},
		{Value: "medical", Label: "Medical"},
		{Value: "business", Label: "Business"},
		{Value: "irs", Label: "IRS / Tax"},
	},
	SectionBusiness: plain(
		"Software", "Subscriptions", "Insurance", "Accounting", "Marketing",
		"Communication", "Office", "Cloud", "Legal", "Other",
	),
	SectionAnnual: {
		{Value: "income", Label: "Income"},
		{Value: "expense", Label: "Expense"},
	},
	SectionSkip: {{Value: "skip", Label: "Skip"}},
}

func plain(names ...string) []CategoryOption {
	out := make([]CategoryOption, 0, len(names))
	for _, n := range names {
		out = append(out, CategoryOption{Value: n, Label: n})
	}
	return out
}

// CategoryOptions returns the closed category vocabulary for a section.
// Unknown sections fall back to the monthly-expense vocabulary.
func CategoryOptions(s Section) []CategoryOption {
	if opts, ok := sectionCategories[s]; ok {
		return opts
	}
	return sectionCategories[SectionMonthly]
}

// DefaultCategory returns the first valid category value for a section. It is
// what a review row resets to when the user moves it to a new section.
func DefaultCategory(s Section) string {
	opts := CategoryOptions(s)
	if len(opts) == 0 {
		return "Other"
	}
	return opts[0].Value
}
