package budget

// Document is the whole budget: a single JSON document owned by the store.
// Field names and tags match the on-disk format, so exported documents stay
// interchangeable across versions.
type Document struct {
	Version          int               `json:"version"`
	Profile          Profile           `json:"profile"`
	Income           []Income          `json:"income"`
	MonthlyExpenses  []MonthlyExpense  `json:"monthlyExpenses"`
	Debts            []Debt            `json:"debts"`
	PropertyExpenses []PropertyExpense `json:"propertyExpenses"`
	AnnualBudget     []AnnualItem      `json:"annualBudget"`
	BusinessExpenses []BusinessExpense `json:"businessExpenses"`
	Settings         Settings          `json:"settings"`
}

type Profile struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type Settings struct {
	Theme              string `json:"theme"`
	Language           string `json:"language"`
	ReminderDaysBefore int    `json:"reminderDaysBefore"`
	GroqModel          string `json:"groqModel"`
}

// Income is a recurring income source. Frequency is monthly, biweekly or
// weekly; totals normalize everything to a monthly figure.
type Income struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

type MonthlyExpense struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	DueDay   int     `json:"dueDay"`
	AutoPay  bool    `json:"autoPay"`
}

type Debt struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalDebt      float64 `json:"totalDebt"`
	OriginalDebt   float64 `json:"originalDebt"`
	DueDay         int     `json:"dueDay"`
	InterestRate   string  `json:"interestRate"`
	Notes          string  `json:"notes"`
	Category       string  `json:"category"`
}

type PropertyExpense struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Cost      float64 `json:"cost"`
	Completed bool    `json:"completed"`
}

type AnnualItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	IsIncome bool    `json:"isIncome"`
}

type BusinessExpense struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthlyCost"`
	AnnualCost  float64 `json:"annualCost"`
	Category    string  `json:"category"`
}

// DefaultDocument returns an empty budget with default settings.
func DefaultDocument() *Document {
	return &Document{
		Version: 1,
		Profile: Profile{Currency: "USD"},
		Settings: Settings{
			Theme:              "dark",
			Language:           "en",
			ReminderDaysBefore: 3,
			GroqModel:          "llama-3.3-70b-versatile",
		},
	}
}

// Clone returns a deep copy; slices are copied so mutations on the clone
// never leak into the original.
func (d *Document) Clone() *Document {
	out := *d
	out.Income = append([]Income(nil), d.Income...)
	out.MonthlyExpenses = append([]MonthlyExpense(nil), d.MonthlyExpenses...)
	out.Debts = append([]Debt(nil), d.Debts...)
	out.PropertyExpenses = append([]PropertyExpense(nil), d.PropertyExpenses...)
	out.AnnualBudget = append([]AnnualItem(nil), d.AnnualBudget...)
	out.BusinessExpenses = append([]BusinessExpense(nil), d.BusinessExpenses...)
	return &out
}

// SectionCount returns how many records a section currently holds.
func (d *Document) SectionCount(s Section) int {
	switch s {
	case SectionIncome:
		return len(d.Income)
	case SectionMonthly:
		return len(d.MonthlyExpenses)
	case SectionDebts:
		return len(d.Debts)
	case SectionBusiness:
		return len(d.BusinessExpenses)
	case SectionAnnual:
		return len(d.AnnualBudget)
	default:
		return 0
	}
}

// TotalMonthlyIncome normalizes all income sources to a monthly figure.
func (d *Document) TotalMonthlyIncome() float64 {
	var sum float64
	for _, in := range d.Income {
		switch in.Frequency {
		case "biweekly":
			sum += in.Amount * 26 / 12
		case "weekly":
			sum += in.Amount * 52 / 12
		default:
			sum += in.Amount
		}
	}
	return sum
}

func (d *Document) TotalMonthlyExpenses() float64 {
	var sum float64
	for _, e := range d.MonthlyExpenses {
		sum += e.Amount
	}
	return sum
}

func (d *Document) TotalDebtPayments() float64 {
	var sum float64
	for _, dt := range d.Debts {
		sum += dt.MonthlyPayment
	}
	return sum
}

// TotalDebt is the remaining balance across all debts.
func (d *Document) TotalDebt() float64 {
	var sum float64
	for _, dt := range d.Debts {
		sum += dt.TotalDebt
	}
	return sum
}

func (d *Document) TotalPropertyExpenses() float64 {
	var sum float64
	for _, p := range d.PropertyExpenses {
		sum += p.Cost
	}
	return sum
}

func (d *Document) TotalBusinessExpenses() float64 {
	var sum float64
	for _, b := range d.BusinessExpenses {
		sum += b.MonthlyCost
	}
	return sum
}

// NetMonthly is income minus expenses, debt payments and business costs.
func (d *Document) NetMonthly() float64 {
	return d.TotalMonthlyIncome() - d.TotalMonthlyExpenses() - d.TotalDebtPayments() - d.TotalBusinessExpenses()
}
