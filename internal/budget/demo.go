package budget

// DemoDocument returns a fictional sample budget for demo mode. Nothing in it
// is real; it exists so the dashboard has something to show before a first
// import.
func DemoDocument() *Document {
	d := DefaultDocument()
	d.Profile.Name = "Demo User"
	d.Income = []Income{
		{ID: "inc1", Name: "Software Engineer Salary", Amount: 6200, Frequency: "monthly"},
		{ID: "inc2", Name: "Freelance Design Work", Amount: 1800, Frequency: "monthly"},
	}
	d.MonthlyExpenses = []MonthlyExpense{
		{ID: "exp1", Name: "Groceries & Meal Prep", Amount: 650, Category: "Food", DueDay: 1},
		{ID: "exp2", Name: "Rent", Amount: 1850, Category: "Housing", DueDay: 1, AutoPay: true},
		{ID: "exp3", Name: "Electric & Gas", Amount: 145, Category: "Utilities", DueDay: 12, AutoPay: true},
		{ID: "exp4", Name: "Cell Phone Plan", Amount: 95, Category: "Phone", DueDay: 22, AutoPay: true},
		{ID: "exp5", Name: "Internet", Amount: 70, Category: "Internet", DueDay: 5, AutoPay: true},
		{ID: "exp6", Name: "Car Insurance", Amount: 185, Category: "Insurance", DueDay: 15, AutoPay: true},
		{ID: "exp7", Name: "Gas / Transit", Amount: 200, Category: "Transportation", DueDay: 1},
		{ID: "exp8", Name: "Spotify + Streaming", Amount: 32, Category: "Entertainment", DueDay: 10, AutoPay: true},
	}
	d.Debts = []Debt{
		{ID: "d1", Name: "Student Loan (Federal)", MonthlyPayment: 320, TotalDebt: 28500, OriginalDebt: 42000, DueDay: 15, InterestRate: "5.5%", Notes: "Income-driven repayment plan", Category: "student"},
		{ID: "d2", Name: "Car Loan (2022 Civic)", MonthlyPayment: 385, TotalDebt: 12400, OriginalDebt: 22000, DueDay: 5, InterestRate: "4.9%", Notes: "Ends March 2028", Category: "auto"},
		{ID: "d3", Name: "Visa Platinum", MonthlyPayment: 150, TotalDebt: 3200, OriginalDebt: 5800, DueDay: 20, InterestRate: "18.9%", Notes: "Paying down aggressively", Category: "credit-card"},
		{ID: "d4", Name: "Medical Bill (ER Visit)", MonthlyPayment: 100, TotalDebt: 2800, OriginalDebt: 4200, DueDay: 1, InterestRate: "0%", Notes: "Payment plan with hospital", Category: "medical"},
	}
	d.PropertyExpenses = []PropertyExpense{
		{ID: "p1", Name: "New Kitchen Faucet", Cost: 350, Completed: true},
		{ID: "p2", Name: "Bedroom Carpet Replacement", Cost: 2800},
		{ID: "p3", Name: "Smart Thermostat Install", Cost: 280, Completed: true},
		{ID: "p4", Name: "Front Door Replacement", Cost: 2200},
	}
	d.AnnualBudget = []AnnualItem{
		{ID: "a1", Name: "Salary Income", Amount: 74400, IsIncome: true},
		{ID: "a2", Name: "Freelance Income", Amount: 21600, IsIncome: true},
		{ID: "a3", Name: "Housing (Rent + Utils)", Amount: 24600},
		{ID: "a4", Name: "Debt Payments", Amount: 19500},
	}
	d.BusinessExpenses = []BusinessExpense{
		{ID: "b1", Name: "Adobe Creative Suite", MonthlyCost: 55, AnnualCost: 660, Category: "Software"},
		{ID: "b2", Name: "Figma Pro", MonthlyCost: 15, AnnualCost: 180, Category: "Software"},
		{ID: "b3", Name: "Liability Insurance", MonthlyCost: 35, AnnualCost: 420, Category: "Insurance"},
		{ID: "b4", Name: "Accounting Software", MonthlyCost: 10, AnnualCost: 120, Category: "Accounting"},
	}
	return d
}
