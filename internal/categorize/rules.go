package categorize

import "regexp"

// rule is one (description pattern, category) pair. Rules are evaluated
// strictly in list order against the upper-cased description; the first
// match wins. Order is load-bearing: "CHASE CARD" must claim credit_card
// before the generic transfer/ACH patterns see the line.
type rule struct {
	pattern    *regexp.Regexp
	categoryID string
}

var rules = []rule{
	{regexp.MustCompile(`PAYROLL|PAYCHEX|ADP|GUSTO`), "payroll"},
	{regexp.MustCompile(`401K|RETIREMENT|PENSION`), "payroll_tax"},
	{regexp.MustCompile(`RENT|LEASE`), "rent"},
	{regexp.MustCompile(`ELECTRIC|GAS|WATER|UTILITY|PG&E|EDISON`), "utilities"},
	{regexp.MustCompile(`INSURANCE|GEICO|STATE FARM|BLUE CROSS|BLUE SHIELD`), "insurance"},
	{regexp.MustCompile(`AMEX|VISA|MASTERCARD|DISCOVER|CHASE CARD`), "credit_card"},
	{regexp.MustCompile(`LOAN|MORTGAGE|LENDING`), "loan"},
	{regexp.MustCompile(`AMAZON|OFFICE DEPOT|STAPLES|SUPPLY`), "daily_ops"},
	{regexp.MustCompile(`REFUND|RETURN`), "refunds"},
	{regexp.MustCompile(`DEPOSIT|MERCHANT|STRIPE|SQUARE|AUTHORIZE`), "sales_revenue"},
	{regexp.MustCompile(`TRANSFER|WIRE|ACH`), "other_revenue"},
	{regexp.MustCompile(`TAX|IRS|FTB|FRANCHISE`), "taxes"},
	{regexp.MustCompile(`ATTORNEY|LAWYER|CPA|ACCOUNTANT`), "legal_accounting"},
	{regexp.MustCompile(`GOOGLE ADS|FACEBOOK|META|MARKETING|ADVERTIS`), "marketing"},
	{regexp.MustCompile(`QUICKBOOKS|SLACK|ZOOM|ADOBE|MICROSOFT|SUBSCRIPTION`), "subscriptions"},
}

// matchCategory returns the category of the first matching rule, or ""
// when no rule matches.
func matchCategory(upperDesc string) string {
	for _, r := range rules {
		if r.pattern.MatchString(upperDesc) {
			return r.categoryID
		}
	}
	return ""
}
