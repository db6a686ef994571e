package model

// CategoryUnassigned is the category of transactions no rule has claimed.
const CategoryUnassigned = "unassigned"

// Category is one row of the fixed category reference table. The table is
// not user-extensible; review operations may only pick from it.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Frequency Frequency `json:"frequency"`
}

var categories = []Category{
	{"payroll", "Payroll", "💰", FreqSemiMonthly},
	{"payroll_tax", "Payroll Taxes & Benefits", "🏛️", FreqSemiMonthly},
	{"rent", "Rent", "🏢", FreqMonthly},
	{"utilities", "Utilities (Phone, Internet, Electric)", "💡", FreqMonthly},
	{"insurance", "Insurance", "🛡️", FreqMonthly},
	{"credit_card", "Credit Card Payments", "💳", FreqMonthly},
	{"loan", "Loan Payments", "🏦", FreqMonthly},
	{"cogs", "Inventory / Cost of Goods", "📦", FreqVaries},
	{"sales_revenue", "Sales Revenue", "💵", FreqDaily},
	{"other_revenue", "Other Revenue", "📈", FreqVaries},
	{"distributions", "Owner Distributions", "👤", FreqUncommon},
	{"taxes", "Taxes", "📋", FreqQuarterly},
	{"legal_accounting", "Legal & Accounting", "⚖️", FreqMonthly},
	{"marketing", "Marketing & Advertising", "📣", FreqVaries},
	{"subscriptions", "Software & Subscriptions", "💻", FreqMonthly},
	{"daily_ops", "Daily Operations", "🔧", FreqDaily},
	{"refunds", "Refunds", "↩️", FreqDaily},
	{CategoryUnassigned, "Unassigned", "❓", ""},
}

// Categories returns the fixed category reference table.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category by id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
