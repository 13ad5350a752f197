package service

import (
	"fmt"
	"math"
	"strconv"

	"rbf-calc/domain"
)

// solveInputs carries the quantities every formula shares.
type solveInputs struct {
	values         domain.VariableSet
	derived        domain.DerivedValues
	monthlyRevenue float64
	monthlyPayment float64
}

type solveFunc func(in solveInputs) float64

// solvers maps each solvable variable to the inversion that computes it
// from the other five. A selector with no entry solves to 0.
var solvers = map[domain.Variable]solveFunc{
	domain.FactorRate:       solveFactorRate,
	domain.AmountReceived:   solveAmountReceived,
	domain.RevenueShareRate: solveRevenueShareRate,
	domain.RepaymentPeriod:  solveRepaymentPeriod,
	domain.ProfitMargin:     solveProfitMargin,
	domain.AnnualRevenue:    solveAnnualRevenue,
}

func solveFactorRate(in solveInputs) float64 {
	if in.values.RepaymentPeriod == 0 || in.monthlyPayment == 0 {
		return 0
	}
	if in.values.AmountReceived <= 0 {
		return 0
	}
	totalRepayment := in.monthlyPayment * in.values.RepaymentPeriod
	return totalRepayment / in.values.AmountReceived
}

// solveAmountReceived is unguarded: a zero factor rate yields a
// non-finite result.
func solveAmountReceived(in solveInputs) float64 {
	return in.derived.RepaymentObligation / in.values.FactorRate
}

func solveRevenueShareRate(in solveInputs) float64 {
	if in.values.RepaymentPeriod == 0 || in.values.AnnualRevenue == 0 {
		return 0
	}
	requiredMonthlyPayment := in.derived.RepaymentObligation / in.values.RepaymentPeriod
	return (requiredMonthlyPayment / in.monthlyRevenue) * 100
}

func solveRepaymentPeriod(in solveInputs) float64 {
	if in.monthlyPayment == 0 {
		return 0
	}
	return in.derived.RepaymentObligation / in.monthlyPayment
}

// Profit margin has no defined relationship to the other variables yet,
// so it passes through unchanged.
func solveProfitMargin(in solveInputs) float64 {
	return in.values.ProfitMargin
}

func solveAnnualRevenue(in solveInputs) float64 {
	if in.values.RevenueShareRate == 0 || in.values.RepaymentPeriod == 0 {
		return 0
	}
	requiredMonthlyRevenue := in.derived.RepaymentObligation / in.values.RepaymentPeriod
	return (requiredMonthlyRevenue / (in.values.RevenueShareRate / 100)) * 12
}

// Solve returns the value of selector that makes the RBF relationships
// consistent with the other five variables of vs.
func Solve(vs domain.VariableSet, selector domain.Variable) float64 {
	solver, ok := solvers[selector]
	if !ok {
		return 0
	}
	return solver(solveInputs{
		values:         vs,
		derived:        vs.Derived(),
		monthlyRevenue: MonthlyRevenue(vs),
		monthlyPayment: MonthlyPayment(vs),
	})
}

// Recompute overwrites the selected variable with its solved value. Any
// value previously held by the selected field is discarded.
func Recompute(vs domain.VariableSet, selector domain.Variable) domain.VariableSet {
	if !selector.IsSolvable() {
		return vs
	}
	return vs.With(selector, Solve(vs, selector))
}

func MonthlyRevenue(vs domain.VariableSet) float64 {
	return vs.AnnualRevenue / 12
}

// MonthlyPayment is the share of monthly revenue remitted each month.
func MonthlyPayment(vs domain.VariableSet) float64 {
	return MonthlyRevenue(vs) * (vs.RevenueShareRate / 100)
}

// RepaymentYears converts a month count to years with one decimal place.
func RepaymentYears(months float64) string {
	return strconv.FormatFloat(months/12, 'f', 1, 64)
}

// EffectiveAnnualRate annualizes the return implied by a factor rate
// repaid over the given number of months, as a percentage.
func EffectiveAnnualRate(factorRate, months float64) float64 {
	if months == 0 || math.IsNaN(factorRate) || factorRate <= 0 {
		return 0
	}
	rate := (math.Pow(factorRate, 12/months) - 1) * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

// IsFactorRateLow reports a factor rate at which the financier gets back
// no more than it disbursed.
func IsFactorRateLow(factorRate float64) bool {
	return factorRate <= 1
}

type decoration struct {
	prefix string
	suffix string
}

var decorations = map[domain.Variable]decoration{
	domain.FactorRate:          {suffix: "x"},
	domain.AmountReceived:      {prefix: "$"},
	domain.RepaymentObligation: {prefix: "$"},
	domain.CostOfCapital:       {prefix: "$"},
	domain.RevenueShareRate:    {suffix: "%"},
	domain.RepaymentPeriod:     {suffix: " months"},
	domain.ProfitMargin:        {suffix: "%"},
	domain.AnnualRevenue:       {prefix: "$"},
}

// Format renders value for display with two decimals and the unit
// decoration of name. Unknown names format to "".
func Format(name domain.Variable, value float64) string {
	d, ok := decorations[name]
	if !ok {
		return ""
	}
	if math.IsInf(value, 0) {
		return d.prefix + formatInf(value) + d.suffix
	}
	return fmt.Sprintf("%s%.2f%s", d.prefix, value, d.suffix)
}

// formatInf spells infinities the way share links and displays expect.
func formatInf(v float64) string {
	if v < 0 {
		return "-Infinity"
	}
	return "Infinity"
}

// FormatAll formats the six independent variables and both derived values.
func FormatAll(vs domain.VariableSet) map[string]string {
	out := make(map[string]string, len(decorations))
	for name := range decorations {
		out[string(name)] = Format(name, vs.Get(name))
	}
	return out
}
