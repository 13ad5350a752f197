package domain

// Variable names one quantity of an RBF deal. The string value is the
// query-string key and the JSON key.
type Variable string

const (
	FactorRate       Variable = "factorRate"
	AmountReceived   Variable = "amountReceived"
	RevenueShareRate Variable = "revenueShareRate"
	RepaymentPeriod  Variable = "repaymentPeriod"
	ProfitMargin     Variable = "profitMargin"
	AnnualRevenue    Variable = "annualRevenue"

	// Derived quantities. They can be formatted but never solved for.
	RepaymentObligation Variable = "repaymentObligation"
	CostOfCapital       Variable = "costOfCapital"
)

// SolveForKey is the query-string key carrying the solve selector.
const SolveForKey = "solveFor"

// DefaultSolveFor is used when no selector is supplied.
const DefaultSolveFor = RepaymentPeriod

// Solvable lists the independent variables in display order.
var Solvable = []Variable{
	FactorRate,
	AmountReceived,
	RevenueShareRate,
	RepaymentPeriod,
	ProfitMargin,
	AnnualRevenue,
}

// IsSolvable reports whether v is one of the six independent variables.
func (v Variable) IsSolvable() bool {
	for _, s := range Solvable {
		if s == v {
			return true
		}
	}
	return false
}

func (v Variable) Label() string {
	switch v {
	case FactorRate:
		return "Factor Rate (multiplier)"
	case AmountReceived:
		return "Amount Received ($)"
	case RevenueShareRate:
		return "Revenue Share Rate (%)"
	case RepaymentPeriod:
		return "Repayment Period (months)"
	case ProfitMargin:
		return "Annual Profit Margin (%)"
	case AnnualRevenue:
		return "Annual Revenue ($)"
	case RepaymentObligation:
		return "Repayment Obligation ($)"
	case CostOfCapital:
		return "Cost of Capital ($)"
	}
	return string(v)
}

// ParseVariable returns the solvable variable named s.
func ParseVariable(s string) (Variable, bool) {
	v := Variable(s)
	if !v.IsSolvable() {
		return "", false
	}
	return v, true
}
